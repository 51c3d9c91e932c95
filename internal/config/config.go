// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// APIBaseURL is the root of the remote family API. Required.
	APIBaseURL string
	// ListenAddr is the panel's HTTP bind address.
	ListenAddr string
	// DBPath is the SQLite database file holding the stored credential.
	DBPath string
	// RequestTimeout bounds every call to the family API.
	RequestTimeout time.Duration
	// SecretKey is an optional 32-byte AES key for credential encryption
	// at rest. Nil means the credential is stored in plaintext.
	SecretKey []byte
}

// Load reads configuration from environment variables and returns a
// validated Config. HEARTH_API_URL is required. Optional variables with
// defaults: HEARTH_LISTEN_ADDR (127.0.0.1:8087), HEARTH_DB_PATH
// (hearth.db), HEARTH_REQUEST_TIMEOUT (30s). HEARTH_SECRET_KEY, when set,
// must be 64 hex characters (32 bytes).
func Load() (*Config, error) {
	apiBaseURL := os.Getenv("HEARTH_API_URL")
	if apiBaseURL == "" {
		return nil, fmt.Errorf("HEARTH_API_URL is required")
	}

	listenAddr := "127.0.0.1:8087"
	if v, ok := os.LookupEnv("HEARTH_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "hearth.db"
	if v, ok := os.LookupEnv("HEARTH_DB_PATH"); ok {
		dbPath = v
	}

	requestTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("HEARTH_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("HEARTH_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		requestTimeout = parsed
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("HEARTH_SECRET_KEY"); ok && v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("HEARTH_SECRET_KEY is not valid hex: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("HEARTH_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		secretKey = decoded
	}

	return &Config{
		APIBaseURL:     apiBaseURL,
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
		RequestTimeout: requestTimeout,
		SecretKey:      secretKey,
	}, nil
}
