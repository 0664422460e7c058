package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultAPIURL is the API root of a local distrobuild.
	DefaultAPIURL = "http://localhost:8090/api"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Config holds what the client needs to reach the distrobuild API.
type Config struct {
	// APIURL is the API root, including the /api prefix.
	APIURL string

	// Timeout is the maximum duration of one HTTP request.
	Timeout time.Duration

	// Token is an OAuth2 access token. Without it only reads are possible.
	Token string
}

// DefaultConfig returns a Config pointing at a local server.
func DefaultConfig() Config {
	return Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("invalid configuration: API URL cannot be empty")
	}
	if !strings.HasPrefix(c.APIURL, schemeHTTP) && !strings.HasPrefix(c.APIURL, schemeHTTPS) {
		return fmt.Errorf("invalid configuration: API URL must have http:// or https:// scheme, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid configuration: timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
