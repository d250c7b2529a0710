package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	t.Run("bcrypt hash", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
		require.NoError(t, err)

		assert.True(t, VerifyPassword(string(hash), "s3cret"))
		assert.False(t, VerifyPassword(string(hash), "wrong"))
	})

	t.Run("legacy md5 hex", func(t *testing.T) {
		sum := md5.Sum([]byte("s3cret"))
		hash := hex.EncodeToString(sum[:])

		assert.True(t, VerifyPassword(hash, "s3cret"))
		assert.False(t, VerifyPassword(hash, "wrong"))
	})

	t.Run("uppercase legacy digest still matches", func(t *testing.T) {
		sum := md5.Sum([]byte("s3cret"))
		hash := strings.ToUpper(hex.EncodeToString(sum[:]))
		assert.True(t, VerifyPassword(hash, "s3cret"))
	})

	t.Run("unrecognized hash shape never verifies", func(t *testing.T) {
		assert.False(t, VerifyPassword("plaintext", "plaintext"))
		assert.False(t, VerifyPassword("", ""))
	})
}
