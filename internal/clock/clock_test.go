package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewZoneClock(t *testing.T) {
	t.Run("loads a known zone", func(t *testing.T) {
		c := NewZoneClock("Asia/Jakarta")
		_, offset := c.Now().Zone()
		assert.Equal(t, 7*60*60, offset)
	})

	t.Run("unknown zone falls back to UTC+7", func(t *testing.T) {
		c := NewZoneClock("Not/AZone")
		name, offset := c.Now().Zone()
		assert.Equal(t, "UTC+7", name)
		assert.Equal(t, 7*60*60, offset)
	})
}

func TestFixed(t *testing.T) {
	at := time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, at, Fixed{T: at}.Now())
}
