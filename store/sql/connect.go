package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ConnectConfig carries the connection settings for a persistence client.
// Driver selects the dialect; DSN is passed to the underlying sql driver.
type ConnectConfig struct {
	Driver          string
	DSN             string
	Debug           bool
	MaxOpenConns    int
	MaxIdleConns    int
	PingTimeout     time.Duration
	OtelIdentifier  string
	ConnMaxLifetime time.Duration
}

func (c ConnectConfig) GetDebug() bool { return c.Debug }

func (c ConnectConfig) GetDriver() string { return c.Driver }

func (c ConnectConfig) GetServer() string { return c.DSN }

func (c ConnectConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c ConnectConfig) GetOtelIdentifier() string {
	if strings.TrimSpace(c.OtelIdentifier) == "" {
		return "go-accounts"
	}
	return c.OtelIdentifier
}

// Connect opens a database handle for cfg and wraps it in a persistence
// client. The sqlite driver is capped at one open connection; shared-cache
// sqlite misbehaves under concurrent writers.
func Connect(cfg ConnectConfig) (*persistence.Client, error) {
	driver := strings.TrimSpace(strings.ToLower(cfg.Driver))
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: connection dsn is required")
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	switch driver {
	case DriverPostgres:
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	case DriverSQLite:
		sqlDB.SetMaxOpenConns(1)
	}

	var client *persistence.Client
	switch driver {
	case DriverPostgres:
		client, err = persistence.New(cfg, sqlDB, pgdialect.New())
	case DriverSQLite:
		client, err = persistence.New(cfg, sqlDB, sqlitedialect.New())
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}
	return client, nil
}
