// Package config builds the immutable runtime configuration for the handler.
//
// Values come from an optional YAML or TOML file (CONFIG_FILE) and from the
// process environment, with the environment taking precedence. The result is
// constructed once at startup and passed by value into every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultAPIVersion is the Shopify admin API version used when none is configured.
const DefaultAPIVersion = "2025-07"

const (
	defaultHTTPTimeout = 15 * time.Second
	defaultPort        = "3000"
	defaultLogLevel    = "info"
	defaultLogFormat   = "json"
)

// Config holds every setting the handler reads at startup.
type Config struct {
	StoreDomain string
	APIVersion  string
	SecretID    string
	Bearer      string

	// AdminToken bypasses Secrets Manager when set. Intended for local runs.
	AdminToken string

	// CredentialTTL bounds how long a fetched admin token may be reused.
	// Zero fetches the token on every remote call.
	CredentialTTL time.Duration
	HTTPTimeout   time.Duration

	Port        string
	TLSCertFile string
	TLSKeyFile  string

	LogLevel  string
	LogFormat string
}

// fileConfig is the on-disk shape shared by the YAML and TOML loaders.
type fileConfig struct {
	StoreDomain   string `yaml:"store_domain" toml:"store_domain"`
	APIVersion    string `yaml:"api_version" toml:"api_version"`
	SecretID      string `yaml:"secret_id" toml:"secret_id"`
	Bearer        string `yaml:"bearer" toml:"bearer"`
	AdminToken    string `yaml:"admin_token" toml:"admin_token"`
	CredentialTTL string `yaml:"credential_cache_ttl" toml:"credential_cache_ttl"`
	HTTPTimeout   string `yaml:"http_timeout" toml:"http_timeout"`
	Port          string `yaml:"port" toml:"port"`
	TLSCertFile   string `yaml:"tls_cert_file" toml:"tls_cert_file"`
	TLSKeyFile    string `yaml:"tls_key_file" toml:"tls_key_file"`
	LogLevel      string `yaml:"log_level" toml:"log_level"`
	LogFormat     string `yaml:"log_format" toml:"log_format"`
}

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Default returns a Config populated with defaults only.
func Default() Config {
	return Config{
		APIVersion:  DefaultAPIVersion,
		HTTPTimeout: defaultHTTPTimeout,
		Port:        defaultPort,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
	}
}

// FromEnv loads the configuration using getenv as the environment source.
// If CONFIG_FILE is set, that file is read first.
func FromEnv(getenv func(string) string) (Config, error) {
	return Load(getenv("CONFIG_FILE"), getenv)
}

// Load reads the optional file at path, overlays environment values from
// getenv and validates the result. An empty path skips the file.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()
	if path != "" {
		fc, err := readFile(path, getenv)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.merge(fc); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := cfg.merge(envConfig(getenv)); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func readFile(path string, getenv func(string) string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	expanded := expandEnvVars(string(data), getenv)

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
			return fileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, &fc); err != nil {
			return fileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		return fileConfig{}, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return fc, nil
}

// expandEnvVars replaces ${VAR_NAME} with the value from getenv; unset
// variables expand to the empty string.
func expandEnvVars(s string, getenv func(string) string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return getenv(envVarRe.FindStringSubmatch(match)[1])
	})
}

func envConfig(getenv func(string) string) fileConfig {
	return fileConfig{
		StoreDomain:   getenv("SHOPIFY_STORE_DOMAIN"),
		APIVersion:    getenv("SHOPIFY_API_VERSION"),
		SecretID:      getenv("SECRET_ID"),
		Bearer:        getenv("MCP_BEARER"),
		AdminToken:    getenv("SHOPIFY_ADMIN_TOKEN"),
		CredentialTTL: getenv("CREDENTIAL_CACHE_TTL"),
		HTTPTimeout:   getenv("SHOPIFY_HTTP_TIMEOUT"),
		Port:          getenv("PORT"),
		TLSCertFile:   getenv("TLS_CERT_FILE"),
		TLSKeyFile:    getenv("TLS_KEY_FILE"),
		LogLevel:      getenv("LOG_LEVEL"),
		LogFormat:     getenv("LOG_FORMAT"),
	}
}

// merge copies every non-empty value of fc over c.
func (c *Config) merge(fc fileConfig) error {
	set(&c.StoreDomain, fc.StoreDomain)
	set(&c.APIVersion, fc.APIVersion)
	set(&c.SecretID, fc.SecretID)
	set(&c.Bearer, fc.Bearer)
	set(&c.AdminToken, fc.AdminToken)
	set(&c.Port, fc.Port)
	set(&c.TLSCertFile, fc.TLSCertFile)
	set(&c.TLSKeyFile, fc.TLSKeyFile)
	set(&c.LogLevel, fc.LogLevel)
	set(&c.LogFormat, fc.LogFormat)

	if fc.CredentialTTL != "" {
		d, err := time.ParseDuration(fc.CredentialTTL)
		if err != nil {
			return fmt.Errorf("parsing credential_cache_ttl %q: %w", fc.CredentialTTL, err)
		}
		c.CredentialTTL = d
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("parsing http_timeout %q: %w", fc.HTTPTimeout, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

func set(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// Validate reports the first missing or invalid setting.
func (c Config) Validate() error {
	if c.StoreDomain == "" {
		return errors.New("store domain is required (SHOPIFY_STORE_DOMAIN)")
	}
	if strings.Contains(c.StoreDomain, "/") {
		return fmt.Errorf("store domain %q must be a bare host name", c.StoreDomain)
	}
	if c.APIVersion == "" {
		return errors.New("api version must not be empty")
	}
	if c.SecretID == "" && c.AdminToken == "" {
		return errors.New("secret id is required (SECRET_ID)")
	}
	if c.Bearer == "" {
		return errors.New("bearer secret is required (MCP_BEARER)")
	}
	if c.CredentialTTL < 0 {
		return fmt.Errorf("credential cache ttl must not be negative, got %s", c.CredentialTTL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Endpoint is the admin GraphQL URL for the configured store and version.
func (c Config) Endpoint() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.StoreDomain, c.APIVersion)
}
