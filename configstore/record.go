package configstore

import (
	"fmt"
	"time"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/errors"
)

// defaultPort is the bridge server's default listen port.
const defaultPort = 9990

// Record is one persisted bridge connection entry.
type Record struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Connection
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Secure bool   `json:"secure,omitempty"`
	APIKey string `json:"api_key,omitempty"`

	// AutoConnect marks bridges the fleet manager connects on startup.
	AutoConnect bool `json:"auto_connect,omitempty"`

	// Audit
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the record is complete enough to dial.
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.WrapInvalid(fmt.Errorf("record ID cannot be empty"),
			"configstore", "Validate", "validation failed")
	}
	if r.Name == "" {
		return errors.WrapInvalid(fmt.Errorf("record name cannot be empty"),
			"configstore", "Validate", "validation failed")
	}
	if r.Host == "" {
		return errors.WrapInvalid(fmt.Errorf("record host cannot be empty"),
			"configstore", "Validate", "validation failed")
	}
	if r.Port < 1 || r.Port > 65535 {
		return errors.WrapInvalid(fmt.Errorf("invalid port: %d", r.Port),
			"configstore", "Validate", "validation failed")
	}
	return nil
}

// Address returns the host:port form used in logs and CLI output.
func (r *Record) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ClientConfig converts the record into a dialable connection config.
func (r *Record) ClientConfig() bridgeclient.Config {
	return bridgeclient.Config{
		Host:   r.Host,
		Port:   r.Port,
		Secure: r.Secure,
		APIKey: r.APIKey,
	}
}
