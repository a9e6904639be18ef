package probe

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultDialTimeout = 5 * time.Second

// AMQP checks that a broker accepts a connection to the resolved vhost.
type AMQP struct {
	name  string
	url   string
	vhost string
}

// NewAMQP parses raw. An empty vhost path (".../") is treated as the default
// vhost "/", as Celery's kombu does.
func NewAMQP(name, raw string) (*AMQP, error) {
	uri, err := amqp.ParseURI(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", name, err)
	}

	vhost := uri.Vhost
	if vhost == "" {
		vhost = "/"
	}

	return &AMQP{name: name, url: raw, vhost: vhost}, nil
}

// Name implements Checker.
func (a *AMQP) Name() string {
	return a.name
}

// Vhost returns the vhost the probe connects to.
func (a *AMQP) Vhost() string {
	return a.vhost
}

// Check opens and closes a broker connection.
func (a *AMQP) Check(ctx context.Context) error {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(a.url, amqp.Config{
		Vhost: a.vhost,
		Dial:  amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	return conn.Close()
}
