package clubauth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// errTransient marks failures the circuit breaker should count. Denied
// and malformed tokens are terminal and must not trip the breaker.
var errTransient = errors.New("transient club sso failure")

func markTransient(err error) error {
	return errors.Mark(err, errTransient)
}

func isTransient(err error) bool {
	return err != nil && errors.Is(err, errTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
