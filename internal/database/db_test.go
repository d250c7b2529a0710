package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	base := Config{
		User: "svc", Pass: "s3cret",
		Host: "db.internal", Port: "3306", Name: "tickets",
		Timezone: "Asia/Jakarta",
	}

	t.Run("business timezone is escaped into loc", func(t *testing.T) {
		assert.Equal(t,
			"svc:s3cret@tcp(db.internal:3306)/tickets?charset=utf8mb4&parseTime=true&loc=Asia%2FJakarta",
			base.dsn())
	})

	t.Run("empty password drops the colon", func(t *testing.T) {
		cfg := base
		cfg.Pass = ""
		assert.Equal(t,
			"svc@tcp(db.internal:3306)/tickets?charset=utf8mb4&parseTime=true&loc=Asia%2FJakarta",
			cfg.dsn())
	})

	t.Run("missing timezone falls back to UTC", func(t *testing.T) {
		cfg := base
		cfg.Timezone = ""
		assert.Contains(t, cfg.dsn(), "loc=UTC")
	})
}
