package resolver

const (
	// SchemeDatabase is the URL scheme used for the relational database.
	SchemeDatabase = "psql"
	// SchemeBroker is the URL scheme used for the message broker.
	SchemeBroker = "amqp"
)

// Credentials is one service's credential set. Path holds the database name or broker vhost.
type Credentials struct {
	Username string
	Password string
	Hostname string
	Path     string
}

// Service carries everything needed to resolve a single connection URL.
// Empty strings mean "unset".
type Service struct {
	Scheme   string
	Override string
	Supplied Credentials
	Fallback Credentials
}

// Inputs is the immutable input of Resolve.
type Inputs struct {
	Database Service
	Broker   Service
	// BrokerAlias is an explicit override for the consumer-facing broker alias.
	BrokerAlias string
}

// Result holds the resolved URLs.
type Result struct {
	DatabaseURL     string
	BrokerURL       string
	CeleryBrokerURL string
}

// Var is a single resolved environment variable.
type Var struct {
	Name  string
	Value string
}
