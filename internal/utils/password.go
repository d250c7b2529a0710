package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifyPassword compares a stored hash against a plain password.
// Bcrypt hashes are preferred; rows predating the bcrypt migration
// still carry 32-char md5 hex digests and are compared in that form.
func VerifyPassword(hash, plain string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	}
	if len(hash) == 32 {
		sum := md5.Sum([]byte(plain))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) == 1
	}
	return false
}
