package migsplit

import "fmt"

// Dialect describes how a database/sql driver is used to verify split migrations.
// Drivers must be registered by the importing program.
type Dialect struct {
	Name             string // database/sql driver name
	SanityQuery      string // expect a single row
	TransactionalDDL bool   // false means DDL commits implicitly inside a tx
}

var Postgres = &Dialect{
	Name:             "postgres",
	SanityQuery:      "SELECT 1",
	TransactionalDDL: true,
}

var MySQL = &Dialect{
	Name:             "mysql",
	SanityQuery:      "SELECT 1",
	TransactionalDDL: false,
}

var SQLite = &Dialect{
	Name:             "sqlite3",
	SanityQuery:      "SELECT 1",
	TransactionalDDL: true,
}

var MsSql = &Dialect{
	Name:             "sqlserver",
	SanityQuery:      "SELECT 1",
	TransactionalDDL: true,
}

// DialectByName returns the dialect for a database/sql driver name.
func DialectByName(name string) (*Dialect, error) {
	switch name {
	case Postgres.Name, "postgresql":
		return Postgres, nil
	case MySQL.Name:
		return MySQL, nil
	case SQLite.Name, "sqlite":
		return SQLite, nil
	case MsSql.Name, "mssql":
		return MsSql, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", name)
	}
}
