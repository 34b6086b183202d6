package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to the database named by driver. For sqlite, dsn is a file
// path; the pool is pinned to one connection so writers never contend.
func Open(driver, dsn string, pool PoolConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres, "pg", "postgresql":
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		applyPool(sqlDB, pool)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil

	case DriverSQLite, "":
		sqlDB, err := sql.Open("sqlite", SQLiteDSN(dsn))
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

func applyPool(sqlDB *sql.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

// SQLiteDSN turns a file path into a modernc sqlite DSN with a busy timeout
// and foreign keys enabled. Values that already look like a DSN are kept.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
