package secrets

import (
	"strings"

	"github.com/joho/godotenv"

	"github.com/inevs/webservice/internal/logger"
)

// Package secrets reads optional configuration values from a local flat
// key=value properties file.

// Lookup returns the named secret from the properties file at path. A
// missing file, unreadable file, or absent key yields ("", false); the
// failure is logged rather than propagated, since secrets are optional
// configuration.
func Lookup(path, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" || strings.TrimSpace(path) == "" {
		return "", false
	}

	values, err := godotenv.Read(path)
	if err != nil {
		logger.WarnObj("secrets file unreadable", "error", err)
		return "", false
	}

	value, ok := values[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
