// Package conn turns configured endpoints into open database handles.
package conn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	go_ora "github.com/sijms/go-ora/v2"

	"db-syncgen/internal/dialect"
)

// Roles an endpoint can play in a sync job.
const (
	RoleSource = "source"
	RoleTarget = "target"
)

type SSHConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	KeyFile  string `mapstructure:"key_file" yaml:"key_file"`
}

func (s SSHConfig) Enabled() bool { return s.Host != "" }

// Endpoint is one configured database. Either DSN or the discrete fields
// are used; DSN wins when both are set.
type Endpoint struct {
	Name     string    `mapstructure:"name"`
	Role     string    `mapstructure:"role"`
	Driver   string    `mapstructure:"driver"`
	DSN      string    `mapstructure:"dsn"`
	Host     string    `mapstructure:"host"`
	Port     int       `mapstructure:"port"`
	User     string    `mapstructure:"user"`
	Password string    `mapstructure:"password"`
	Database string    `mapstructure:"database"`
	Schema   string    `mapstructure:"schema"`
	SSH      SSHConfig `mapstructure:"ssh"`
}

var defaultPorts = map[string]int{
	"mysql":     3306,
	"postgres":  5432,
	"sqlserver": 1433,
	"oracle":    1521,
}

// DriverName is the database/sql driver the endpoint opens with.
func (e Endpoint) DriverName() string { return dialect.NormalizeDriver(e.Driver) }

func (e Endpoint) port() int {
	if e.Port > 0 {
		return e.Port
	}
	return defaultPorts[e.DriverName()]
}

func (e Endpoint) host() string {
	if e.Host == "" {
		return "127.0.0.1"
	}
	return e.Host
}

// String identifies the endpoint in logs without leaking credentials.
func (e Endpoint) String() string {
	name := e.Name
	if name == "" {
		name = e.Role
	}
	if e.DriverName() == "sqlite" {
		return fmt.Sprintf("%s (sqlite %s)", name, e.Database)
	}
	if e.DSN != "" && e.Host == "" {
		return fmt.Sprintf("%s (%s)", name, e.DriverName())
	}
	return fmt.Sprintf("%s (%s %s:%d/%s)", name, e.DriverName(), e.host(), e.port(), e.Database)
}

// BuildDSN returns the connection string for the endpoint.
func (e Endpoint) BuildDSN() (string, error) {
	if e.DSN != "" {
		return e.DSN, nil
	}
	addr := net.JoinHostPort(e.host(), strconv.Itoa(e.port()))

	switch e.DriverName() {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = e.User
		cfg.Passwd = e.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = e.Database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(e.User, e.Password),
			Host:     addr,
			Path:     "/" + e.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	case "sqlserver":
		q := url.Values{}
		q.Set("database", e.Database)
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(e.User, e.Password),
			Host:     addr,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case "oracle":
		return go_ora.BuildUrl(e.host(), e.port(), e.Database, e.User, e.Password, nil), nil
	case "sqlite":
		if strings.TrimSpace(e.Database) == "" {
			return "", fmt.Errorf("sqlite endpoint %q needs a database file", e.Name)
		}
		return e.Database, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", e.Driver)
	}
}

// DatabaseName is the catalog the endpoint points at, as far as the
// configuration alone can tell.
func (e Endpoint) DatabaseName() string {
	if e.Database != "" || e.DSN == "" {
		return e.Database
	}
	if e.DriverName() == "mysql" {
		if cfg, err := mysql.ParseDSN(e.DSN); err == nil {
			return cfg.DBName
		}
	}
	return ""
}

// Address is host:port for network endpoints, "" when unknown.
func (e Endpoint) Address() (host string, port int) {
	if e.Host != "" {
		return e.Host, e.port()
	}
	if e.DSN != "" && e.DriverName() == "mysql" {
		if cfg, err := mysql.ParseDSN(e.DSN); err == nil && cfg.Net == "tcp" {
			h, p, err := net.SplitHostPort(cfg.Addr)
			if err != nil {
				return cfg.Addr, e.port()
			}
			n, _ := strconv.Atoi(p)
			return h, n
		}
	}
	return "", 0
}
