package hpq

// auth.go sources the two credential kinds the service accepts: a JWT
// carried as a Bearer token, or the static data-lake shared secret.

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SecretScheme is the Authorization scheme of the shared-secret credential.
const SecretScheme = "MayStreet-Data-Lake-Secret"

// BearerTokenFromFile loads a JWT from path, strips surrounding whitespace,
// and checks that it is well formed and not expired.  The signature is not
// verified here; that is the server's job.
func BearerTokenFromFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hpq: bearer token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("hpq: bearer token %s: %w", path, err)
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return "", fmt.Errorf("hpq: bearer token %s has expired", path)
	}
	return token, nil
}

// validSecret reports whether s is a 64-digit hex string.
func validSecret(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
