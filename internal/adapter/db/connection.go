package db

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"crystalos/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultMySQLParams = "parseTime=true&loc=UTC&multiStatements=true"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	return Open(conf.GatewayURL)
}

// Open connects to a gateway URL of the form mysql://<dsn> or
// sqlite://<path>.
func Open(gatewayURL string) (*sqlx.DB, error) {
	scheme, dsn, ok := strings.Cut(gatewayURL, "://")
	if !ok || dsn == "" {
		return nil, fmt.Errorf("invalid gateway url %q", gatewayURL)
	}

	switch scheme {
	case DriverMySQL:
		if !strings.Contains(dsn, "?") {
			dsn += "?" + defaultMySQLParams
		}
		db, err := sqlx.Connect(DriverMySQL, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		return db, nil
	case DriverSQLite:
		db, err := sqlx.Connect(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		// one writer, and in-memory databases live on a single connection
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported gateway driver %q", scheme)
	}
}
