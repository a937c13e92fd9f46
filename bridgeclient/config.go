package bridgeclient

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/c360/bridgelink/errors"
)

// DefaultPort is the bridge server's default listen port
const DefaultPort = 9990

// Config describes the endpoint of one bridge server
type Config struct {
	Host   string
	Port   int
	Secure bool
	APIKey string
}

// applyDefaults fills in zero-valued optional fields
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}

// Validate checks that the config describes a reachable endpoint
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.WrapInvalid(
			fmt.Errorf("host cannot be empty"),
			"bridgeclient", "Validate", "validation failed")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.WrapInvalid(
			fmt.Errorf("port %d out of range", c.Port),
			"bridgeclient", "Validate", "validation failed")
	}
	return nil
}

// URL builds the websocket endpoint for this config. The API key travels
// as a query parameter because the handshake request cannot carry a bearer
// header from browser-hosted callers.
func (c Config) URL() string {
	scheme := "ws"
	if c.Secure {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/api/ws",
	}
	if c.APIKey != "" {
		q := url.Values{}
		q.Set("api_key", c.APIKey)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// HTTPURL builds the base REST endpoint for this config. The API key never
// appears in the URL; REST requests carry it as a bearer header.
func (c Config) HTTPURL() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	return u.String()
}
