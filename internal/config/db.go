package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex

	active = Env{DBDriver: DriverMySQL, DBTable: "redbus_details"}
)

// Configure sets the connection settings used by ConnectDB. It does not open a
// connection; the first request does.
func Configure(env Env) {
	dbMu.Lock()
	defer dbMu.Unlock()
	active = env
}

// Active returns the settings passed to Configure.
func Active() Env {
	dbMu.Lock()
	defer dbMu.Unlock()
	return active
}

// DSN builds the driver name and data source name for env.
func DSN(env Env) (driverName, dsn string, err error) {
	addr := net.JoinHostPort(env.DBHost, env.DBPort)
	switch env.DBDriver {
	case DriverMySQL, "":
		cfg := mysql.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Loc = time.Local
		cfg.Timeout = 5 * time.Second
		cfg.ReadTimeout = 30 * time.Second
		cfg.WriteTimeout = 30 * time.Second
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", cfg.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(env.DBUser, env.DBPassword),
			Host:     addr,
			Path:     "/" + env.DBName,
			RawQuery: "sslmode=disable&connect_timeout=5",
		}
		return "pgx", u.String(), nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

// ConnectDB opens and pings the shared pool (idempotent). A failed ping leaves
// DB unset so the next interaction tries again.
func ConnectDB() (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()
	return connectLocked()
}

func connectLocked() (*sql.DB, error) {
	if DB != nil {
		return DB, nil
	}

	driverName, dsn, err := DSN(active)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	DB = db
	log.Printf("[DB] action=connect driver=%s addr=%s db=%s", active.DBDriver, net.JoinHostPort(active.DBHost, active.DBPort), active.DBName)
	return DB, nil
}

// EnsureDB connects when needed and otherwise pings the existing pool.
func EnsureDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB == nil {
		_, err := connectLocked()
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return DB.PingContext(ctx)
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
