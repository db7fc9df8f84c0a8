package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// SentinelCredential marks accounts that authenticate through a federated
// provider and have no local password. Styled after the shadow(5) locked
// marker; bcrypt digests always start with "$2", so it can never verify.
const SentinelCredential = "!"

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password too short")
	}

	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// credential. Malformed digests and the sentinel simply fail verification;
// there is no error path that could read as success.
func VerifyPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	) == nil
}
