package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"inputdash/internal/utils"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL    = "http://127.0.0.1:8080"
	ClientConfigFile = "config.toml"
	CredentialsFile  = "credentials.json"

	clientDirEnvKey = "INPUTDASH_CONFIG_DIR"
	apiURLEnvKey    = "INPUTDASH_API_URL"
	demoModeEnvKey  = "INPUTDASH_DEMO_MODE"
	timeoutEnvKey   = "INPUTDASH_HTTP_TIMEOUT"
	logLevelEnvKey  = "INPUTDASH_LOG_LEVEL"
)

// Client is the configuration of the inputdash command line client.
type Client struct {
	APIURL   string `toml:"api_url"`
	DemoMode bool   `toml:"demo_mode"`
	Timeout  string `toml:"timeout"`
	LogLevel string `toml:"log_level"`

	// Dir holds the config file, credentials and demo data.
	Dir string `toml:"-"`
}

// DefaultClient returns default client configuration. Demo mode is on until
// it is explicitly turned off.
func DefaultClient() Client {
	return Client{
		APIURL:   DefaultAPIURL,
		DemoMode: true,
		Timeout:  "10s",
		LogLevel: "warn",
	}
}

var clientKeys = []string{"api_url", "demo_mode", "timeout", "log_level"}

// ClientKeys returns the set of valid client config keys.
func ClientKeys() []string { return clientKeys }

// IsClientKey checks if key is a valid client config key.
func IsClientKey(key string) bool {
	for _, k := range clientKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ClientDir returns the client state directory: $INPUTDASH_CONFIG_DIR or ~/.inputdash.
func ClientDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(clientDirEnvKey)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".inputdash"), nil
}

// LoadClient reads the client config file if present and applies env overrides.
func LoadClient() (Client, error) {
	cfg := DefaultClient()
	dir, err := ClientDir()
	if err != nil {
		return cfg, err
	}
	cfg.Dir = dir

	path := cfg.Path()
	if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return cfg, statErr
	}

	if v := strings.TrimSpace(os.Getenv(apiURLEnvKey)); v != "" {
		cfg.APIURL = v
	}
	// Anything but an explicit "false" keeps demo mode on.
	if v, ok := os.LookupEnv(demoModeEnvKey); ok {
		cfg.DemoMode = strings.TrimSpace(strings.ToLower(v)) != "false"
	}
	if v := strings.TrimSpace(os.Getenv(timeoutEnvKey)); v != "" {
		cfg.Timeout = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnvKey)); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// HTTPTimeout parses Timeout; invalid values fall back to 10s.
func (c Client) HTTPTimeout() time.Duration {
	d, err := utils.ParseDurationEnv(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (c Client) Path() string            { return filepath.Join(c.Dir, ClientConfigFile) }
func (c Client) CredentialsPath() string { return filepath.Join(c.Dir, CredentialsFile) }

// Get returns the value of a config key.
func (c Client) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "demo_mode":
		return strconv.FormatBool(c.DemoMode), nil
	case "timeout":
		return c.Timeout, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s (allowed: %s)", key, strings.Join(clientKeys, ", "))
	}
}

// SetClientKey reads the TOML file at path, sets key=value, and writes it back.
func SetClientKey(path, key, value string) error {
	if !IsClientKey(key) {
		return fmt.Errorf("unknown key: %s (allowed: %s)", key, strings.Join(clientKeys, ", "))
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	value = strings.TrimSpace(value)
	switch key {
	case "demo_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		data[key] = b
	case "timeout":
		if _, err := utils.ParseDurationEnv(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		data[key] = value
	default:
		data[key] = value
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}
