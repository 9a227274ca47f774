// Package database checks connectivity to a generated project's database.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/ports/secondary"
)

// Prober implements secondary.DatabaseProber. Relative sqlite paths are
// resolved against root.
type Prober struct {
	root string
}

// NewProber creates a prober for the project at root.
func NewProber(root string) *Prober {
	return &Prober{root: root}
}

// Ping opens a connection with the driver and pings it.
func (p *Prober) Ping(ctx context.Context, driver, rawURL string) error {
	switch driver {
	case config.DriverPG:
		return pingPostgres(ctx, rawURL)
	case config.DriverMySQL:
		dsn, err := MySQLDSN(rawURL)
		if err != nil {
			return err
		}
		return pingSQL(ctx, "mysql", dsn)
	case config.DriverSQLite:
		dsn, err := SQLiteDSN(p.root, rawURL)
		if err != nil {
			return err
		}
		return pingSQL(ctx, "sqlite3", dsn)
	default:
		return fmt.Errorf("unknown database driver %q", driver)
	}
}

func pingPostgres(ctx context.Context, connString string) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func pingSQL(ctx context.Context, driverName, dsn string) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// MySQLDSN converts a mysql:// URL, as written to .env for drizzle and
// prisma, into a go-sql-driver DSN. Values already in DSN form pass through.
func MySQLDSN(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "mysql://") {
		if _, err := mysql.ParseDSN(rawURL); err != nil {
			return "", fmt.Errorf("invalid mysql connection string: %w", err)
		}
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if tls := u.Query().Get("ssl-mode"); tls != "" && !strings.EqualFold(tls, "disabled") {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN(), nil
}

// SQLiteDSN turns a sqlite DATABASE_URL ("sqlite.db", "file:./dev.db")
// into a read-write DSN that fails instead of creating a missing file.
func SQLiteDSN(root, rawURL string) (string, error) {
	if strings.Contains(rawURL, "://") {
		return "", fmt.Errorf("cannot probe remote sqlite url %q", rawURL)
	}
	path := strings.TrimPrefix(rawURL, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", fmt.Errorf("empty sqlite path")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return "file:" + path + "?mode=rw", nil
}

// Ensure Prober implements the interface
var _ secondary.DatabaseProber = (*Prober)(nil)
