// Package database opens the MySQL handle every repository shares.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool defaults, sized for a single instance of this service.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	pingTimeout            = 5 * time.Second
)

// Config carries the connection settings for Open.
type Config struct {
	User string
	Pass string // empty allowed
	Host string
	Port string
	Name string

	// Timezone names the zone DATETIME columns are read back in.  It
	// must match the business clock: ticket and comment timestamps are
	// stamped in civil time, and a mismatched driver loc would silently
	// re-localize them on every round trip.
	Timezone string

	MaxOpenConns    int           // <= 0 uses the default
	MaxIdleConns    int           // <= 0 uses the default
	ConnMaxLifetime time.Duration // <= 0 uses the default
}

// dsn renders the driver connection string.  parseTime maps DATETIME to
// time.Time; loc carries the business timezone into that mapping.
func (c Config) dsn() string {
	auth := c.User
	if c.Pass != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
	}
	loc := c.Timezone
	if loc == "" {
		loc = "UTC"
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=%s",
		auth, c.Host, c.Port, c.Name, url.QueryEscape(loc))
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection with a short ping.
func Open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.dsn())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
