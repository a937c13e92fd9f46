package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/configstore"
	"github.com/c360/bridgelink/restapi"
)

// connFlags holds the connection configuration shared by every subcommand
// that talks to a bridge.
type connFlags struct {
	Host    string
	Port    int
	Secure  bool
	APIKey  string
	Config  string
	Timeout time.Duration
	Log     *logFlags

	// args holds the positional arguments left after flag parsing.
	args []string
}

// registerConnFlags defines the shared connection flags on fs with
// environment variable fallbacks.
func registerConnFlags(fs *flag.FlagSet) *connFlags {
	cfg := &connFlags{}

	fs.StringVar(&cfg.Host, "host",
		getEnv("BRIDGELINK_HOST", ""),
		"Bridge host; empty consults the roster (env: BRIDGELINK_HOST)")

	fs.IntVar(&cfg.Port, "port",
		getEnvInt("BRIDGELINK_PORT", bridgeclient.DefaultPort),
		"Bridge port (env: BRIDGELINK_PORT)")

	fs.BoolVar(&cfg.Secure, "secure",
		getEnvBool("BRIDGELINK_SECURE", false),
		"Use TLS (env: BRIDGELINK_SECURE)")

	fs.StringVar(&cfg.APIKey, "api-key",
		getEnv("BRIDGELINK_API_KEY", ""),
		"Bridge API key (env: BRIDGELINK_API_KEY)")

	fs.StringVar(&cfg.Config, "config",
		getEnv("BRIDGELINK_CONFIG", ""),
		"Roster file path, defaults to the user config dir (env: BRIDGELINK_CONFIG)")

	fs.DurationVar(&cfg.Timeout, "timeout",
		getEnvDuration("BRIDGELINK_TIMEOUT", restapi.DefaultTimeout),
		"Request timeout (env: BRIDGELINK_TIMEOUT)")

	cfg.Log = registerLogFlags(fs)
	return cfg
}

// parseConn builds the standard flag set for a bridge subcommand, parses
// args, and installs the logger. Positional leftovers land in conn.args.
func parseConn(name string, args []string) *connFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	conn := registerConnFlags(fs)
	fs.Parse(args)
	conn.Log.setup()
	conn.args = fs.Args()
	return conn
}

// clientConfig resolves the connection target. An explicit -host wins; with
// no host the roster is consulted and a single entry selects the target.
func (c *connFlags) clientConfig() (bridgeclient.Config, error) {
	if c.Host != "" {
		return bridgeclient.Config{
			Host:   c.Host,
			Port:   c.Port,
			Secure: c.Secure,
			APIKey: c.APIKey,
		}, nil
	}

	store, err := openRoster(c.Config)
	if err != nil {
		return bridgeclient.Config{}, err
	}
	defer func() { _ = store.Close() }()

	records := store.List()
	switch len(records) {
	case 0:
		return bridgeclient.Config{}, fmt.Errorf("no -host given and roster %s is empty", store.Path())
	case 1:
		cfg := records[0].ClientConfig()
		if c.APIKey != "" {
			cfg.APIKey = c.APIKey
		}
		slog.Debug("Using roster bridge",
			"name", records[0].Name, "address", records[0].Address())
		return cfg, nil
	default:
		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Name)
		}
		return bridgeclient.Config{}, fmt.Errorf(
			"roster has %d bridges (%s), pass -host", len(records), strings.Join(names, ", "))
	}
}

// restClient builds a REST client for the resolved target.
func (c *connFlags) restClient() (*restapi.Client, error) {
	cfg, err := c.clientConfig()
	if err != nil {
		return nil, err
	}
	return restapi.New(cfg,
		restapi.WithLogger(slog.Default()),
		restapi.WithTimeout(c.Timeout))
}

// openRoster opens the bridge roster at path, or at the platform default
// location when path is empty.
func openRoster(path string) (*configstore.Store, error) {
	if path == "" {
		var err error
		path, err = configstore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return configstore.Open(path, configstore.WithLogger(slog.Default()))
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
