package conn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"db-syncgen/internal/dialect"
	"db-syncgen/internal/schema"
)

const pingTimeout = 10 * time.Second

// Conn is an open endpoint. Close releases the pool and any tunnel.
type Conn struct {
	DB       *sql.DB
	Endpoint Endpoint
	Dialect  dialect.Dialect
	// Schema is the schema/catalog metadata queries run against.
	Schema string

	tunnel *tunnel
}

// Open connects to ep, through an SSH tunnel when one is configured, and
// resolves the schema name.
func Open(ctx context.Context, ep Endpoint, log *zap.Logger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Conn{Endpoint: ep, Dialect: dialect.GetDialect(ep.Driver)}

	if ep.SSH.Enabled() {
		if ep.DSN != "" {
			return nil, fmt.Errorf("%s: ssh tunnel needs host/port fields instead of dsn", ep)
		}
		t, local, err := openTunnel(ep.SSH, net.JoinHostPort(ep.host(), strconv.Itoa(ep.port())), log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ep, err)
		}
		c.tunnel = t
		ep.Host = "127.0.0.1"
		ep.Port = local
	}

	dsn, err := ep.BuildDSN()
	if err != nil {
		c.Close()
		return nil, err
	}

	c.DB, err = sql.Open(ep.DriverName(), dsn)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open %s: %w", c.Endpoint, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.DB.PingContext(pingCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("connect to %s: %w", c.Endpoint, err)
	}

	if c.Schema, err = c.resolveSchema(ctx); err != nil {
		c.Close()
		return nil, err
	}
	log.Info("connected",
		zap.String("endpoint", c.Endpoint.String()),
		zap.String("dialect", c.Dialect.Name()),
		zap.String("schema", c.Schema))
	return c, nil
}

func (c *Conn) resolveSchema(ctx context.Context) (string, error) {
	ep := c.Endpoint
	if ep.Schema != "" {
		return ep.Schema, nil
	}
	if ep.DriverName() != "mysql" {
		return c.Dialect.DefaultSchema(""), nil
	}
	if name := ep.DatabaseName(); name != "" {
		return name, nil
	}
	var name sql.NullString
	if err := c.DB.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&name); err != nil {
		return "", fmt.Errorf("get database name of %s: %w", ep, err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("%s: no database selected", ep)
	}
	return name.String, nil
}

// Provider returns a metadata provider over the connection.
func (c *Conn) Provider() *schema.SQLProvider {
	return schema.NewSQLProvider(c.DB, c.Dialect, c.Schema)
}

func (c *Conn) Close() error {
	var errs []error
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.tunnel != nil {
		errs = append(errs, c.tunnel.Close())
	}
	return errors.Join(errs...)
}
