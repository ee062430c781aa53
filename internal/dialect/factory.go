package dialect

import "strings"

// NormalizeDriver maps common aliases to canonical driver keys.
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb", "":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "oracle":
		return "oracle"
	default:
		return strings.ToLower(driver)
	}
}

// GetDialect returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) Dialect {
	switch NormalizeDriver(driver) {
	case "postgres":
		return &PostgresDialect{}
	case "sqlserver":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	case "sqlite":
		return &SqliteDialect{}
	default: // mysql
		return &MysqlDialect{}
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SqliteDialect)(nil)
