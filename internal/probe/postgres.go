package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Postgres checks that a PostgreSQL server accepts the resolved credentials.
type Postgres struct {
	name string
	dsn  string
}

// NewPostgres rewrites the psql/pgsql scheme aliases to one pgx understands.
func NewPostgres(name, raw string) (*Postgres, error) {
	_, rest, found := strings.Cut(raw, "://")
	if !found {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedScheme)
	}
	return &Postgres{name: name, dsn: "postgres://" + rest}, nil
}

// Name implements Checker.
func (p *Postgres) Name() string {
	return p.name
}

// Check opens a connection and pings the server.
func (p *Postgres) Check(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		_ = conn.Close(context.Background())
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
