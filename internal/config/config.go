// Package config loads connection settings for cqlspec.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. ~/.cassandra/cqlshrc or ~/.cqlshrc (and the credentials file it names)
//  3. cqlspec.yaml in the working directory, or the file given with --config
//  4. CASSANDRA_* then CQLSPEC_* environment variables
//  5. command-line flags that were explicitly set
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/axonops/cqlspec/internal/logger"
)

const (
	DefaultHost           = "localhost"
	DefaultPort           = 9042
	DefaultConsistency    = "LOCAL_ONE"
	DefaultConnectTimeout = 10
	DefaultRequestTimeout = 10
)

// Config holds the application configuration
type Config struct {
	Host           string     `koanf:"host"`
	Port           int        `koanf:"port"`
	Keyspace       string     `koanf:"keyspace"`
	Username       string     `koanf:"username"`
	Password       string     `koanf:"password"`
	Consistency    string     `koanf:"consistency"`     // Default consistency level (e.g., "LOCAL_ONE", "QUORUM")
	ConnectTimeout int        `koanf:"connect_timeout"` // Connection timeout in seconds
	RequestTimeout int        `koanf:"request_timeout"` // Request timeout in seconds
	Debug          bool       `koanf:"debug"`           // Enable debug logging
	SSL            *SSLConfig `koanf:"ssl"`

	// Source is the config file that was read, if any.
	Source string `koanf:"-"`
}

// SSLConfig holds SSL/TLS configuration options
type SSLConfig struct {
	Enabled            bool   `koanf:"enabled"`
	CertPath           string `koanf:"cert_path"`            // Path to client certificate
	KeyPath            string `koanf:"key_path"`             // Path to client private key
	CAPath             string `koanf:"ca_path"`              // Path to CA certificate
	HostVerification   bool   `koanf:"host_verification"`    // Enable hostname verification
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify"` // Skip certificate verification (not recommended for production)
	AllowLegacyCN      bool   `koanf:"allow_legacy_cn"`      // Allow legacy Common Name field (certificates without SANs)
	ServerName         string `koanf:"server_name"`          // Override TLS ServerName for SNI
}

// defaultFiles are searched in order when no explicit config file is given.
var defaultFiles = []string{"cqlspec.yaml", "cqlspec.yml", "cqlspec.json"}

// flagKeys maps flag names whose config key differs from the snake_case name.
var flagKeys = map[string]string{
	"ssl": "ssl.enabled",
}

// LoadConfig loads configuration from all sources. cfgFile, when set, must
// exist. flags may be nil.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"host":            DefaultHost,
		"port":            DefaultPort,
		"consistency":     DefaultConsistency,
		"connect_timeout": DefaultConnectTimeout,
		"request_timeout": DefaultRequestTimeout,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. cqlshrc
	for _, path := range cqlshrcPaths() {
		values, err := parseCQLSHRC(path)
		if err != nil {
			logger.DebugfToFile("Config", "No cqlshrc at %s: %v", path, err)
			continue
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load cqlshrc %s: %w", path, err)
		}
		logger.DebugfToFile("Config", "Loaded cqlshrc from: %s", path)
		break
	}

	// 3. Config file
	source, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if source != "" {
		// JSON is a subset of YAML, so one parser serves both formats.
		if err := k.Load(file.Provider(source), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", source, err)
		}
		logger.DebugfToFile("Config", "Loaded config file: %s", source)
	}

	// 4. Environment: CASSANDRA_HOST etc. for cqlsh compatibility, then
	// CQLSPEC_*, where a double underscore nests: CQLSPEC_SSL__CA_PATH -> ssl.ca_path
	if err := k.Load(env.Provider("CASSANDRA_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "CASSANDRA_"))
		switch key {
		case "host", "port", "keyspace", "username", "password":
			return key
		}
		return ""
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if err := k.Load(env.Provider("CQLSPEC_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "CQLSPEC_"))
		if key == "debug_log_path" {
			return ""
		}
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if !k.Exists(key) && !isConfigKey(key) {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.DebugfToFile("Config", "Final config: host=%s, port=%d, username=%s, keyspace=%s, hasPassword=%v",
		cfg.Host, cfg.Port, cfg.Username, cfg.Keyspace, cfg.Password != "")
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at connect time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("invalid config: host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid config: port %d out of range", c.Port)
	}
	if c.ConnectTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("invalid config: timeouts must not be negative")
	}
	return nil
}

// isConfigKey reports whether key is a Config field that has no default.
func isConfigKey(key string) bool {
	switch key {
	case "keyspace", "username", "password", "debug", "ssl.enabled":
		return true
	}
	return false
}

// findConfigFile returns the explicit path, or the first default file that exists.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

func cqlshrcPaths() []string {
	home := os.Getenv("HOME")
	return []string{
		filepath.Join(home, ".cassandra", "cqlshrc"),
		filepath.Join(home, ".cqlshrc"),
	}
}
