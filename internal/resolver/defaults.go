package resolver

// DefaultDatabaseCredentials returns the built-in database fallbacks.
func DefaultDatabaseCredentials() Credentials {
	return Credentials{
		Username: "kompassi",
		Password: "secret",
		Hostname: "postgres",
		Path:     "kompassi",
	}
}

// DefaultBrokerCredentials returns the built-in broker fallbacks. The vhost is empty.
func DefaultBrokerCredentials() Credentials {
	return Credentials{
		Username: "kompassi",
		Password: "secret",
		Hostname: "rabbitmq",
	}
}

// DefaultInputs returns inputs with no supplied values, only built-in fallbacks.
func DefaultInputs() Inputs {
	return Inputs{
		Database: Service{Scheme: SchemeDatabase, Fallback: DefaultDatabaseCredentials()},
		Broker:   Service{Scheme: SchemeBroker, Fallback: DefaultBrokerCredentials()},
	}
}
