// Package config loads bridge settings.
//
// Sources, lowest precedence first:
//
//  1. built-in defaults
//  2. a YAML file (optional)
//  3. a .env file; its values never override the real environment
//  4. the environment (HC_GW_URL, HC_GW_TIMEOUT, HC_APP_ID, HC_DNA_HASH,
//     HC_PAYLOAD_ENCODING, HC_HASH_ENCODING, BRIDGE_STATE_PATH,
//     BRIDGE_STATE_BACKEND, BRIDGE_CATALOG, BRIDGE_LOG_LEVEL)
//
// The merged result is validated against an embedded CUE schema.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/erpbridge/internal/gateway"
	"github.com/roach88/erpbridge/internal/store"
)

// Environment variable names.
const (
	EnvGatewayURL      = "HC_GW_URL"
	EnvGatewayTimeout  = "HC_GW_TIMEOUT"
	EnvAppID           = "HC_APP_ID"
	EnvDNAHash         = "HC_DNA_HASH"
	EnvPayloadEncoding = "HC_PAYLOAD_ENCODING"
	EnvHashEncoding    = "HC_HASH_ENCODING"
	EnvStatePath       = "BRIDGE_STATE_PATH"
	EnvStateBackend    = "BRIDGE_STATE_BACKEND"
	EnvCatalog         = "BRIDGE_CATALOG"
	EnvLogLevel        = "BRIDGE_LOG_LEVEL"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

// ErrMissingDNAHash is returned by RequireGateway when no DNA hash is configured.
var ErrMissingDNAHash = errors.New("gateway dna_hash is not configured (set " + EnvDNAHash + ")")

// Config is the merged bridge configuration.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway" json:"gateway"`
	State   StateConfig   `yaml:"state" json:"state"`

	// Catalog is a YAML item catalog; empty selects the built-in sample.
	Catalog string        `yaml:"catalog" json:"catalog"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GatewayConfig addresses the ledger gateway.
type GatewayConfig struct {
	URL             string   `yaml:"url" json:"url"`
	Timeout         Duration `yaml:"timeout" json:"timeout_seconds"`
	AppID           string   `yaml:"app_id" json:"app_id"`
	DNAHash         string   `yaml:"dna_hash" json:"dna_hash"`
	PayloadEncoding string   `yaml:"payload_encoding" json:"payload_encoding"`
	HashEncoding    string   `yaml:"hash_encoding" json:"hash_encoding"`
}

// StateConfig locates the sync state.
type StateConfig struct {
	Path    string `yaml:"path" json:"path"`
	Backend string `yaml:"backend" json:"backend"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:             "http://127.0.0.1:8888",
			Timeout:         Duration(gateway.DefaultTimeout),
			AppID:           "nondominium",
			PayloadEncoding: string(gateway.PayloadStandard),
			HashEncoding:    string(gateway.HashAsBytes),
		},
		State: StateConfig{
			Path:    ".sync_state.json",
			Backend: string(store.KindJSON),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Options control Load.
type Options struct {
	// File is an optional YAML config file. A named file must exist.
	File string

	// EnvFile is a dotenv file. Empty means DefaultEnvFile, read only if present.
	EnvFile string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load merges every source and validates the result.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		if err := cfg.mergeFile(opts.File); err != nil {
			return nil, err
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvGatewayURL, &c.Gateway.URL},
		{EnvAppID, &c.Gateway.AppID},
		{EnvDNAHash, &c.Gateway.DNAHash},
		{EnvPayloadEncoding, &c.Gateway.PayloadEncoding},
		{EnvHashEncoding, &c.Gateway.HashEncoding},
		{EnvStatePath, &c.State.Path},
		{EnvStateBackend, &c.State.Backend},
		{EnvCatalog, &c.Catalog},
		{EnvLogLevel, &c.Logging.Level},
	}
	for _, s := range strs {
		if v, ok := env(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := env(EnvGatewayTimeout); ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGatewayTimeout, err)
		}
		c.Gateway.Timeout = d
	}
	return nil
}

// normalize trims values and lowercases enumerations before validation.
func (c *Config) normalize() {
	c.Gateway.URL = strings.TrimRight(strings.TrimSpace(c.Gateway.URL), "/")
	c.Gateway.AppID = strings.TrimSpace(c.Gateway.AppID)
	c.Gateway.DNAHash = strings.TrimSpace(c.Gateway.DNAHash)
	c.Gateway.PayloadEncoding = strings.ToLower(strings.TrimSpace(c.Gateway.PayloadEncoding))
	c.Gateway.HashEncoding = strings.ToLower(strings.TrimSpace(c.Gateway.HashEncoding))
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// RequireGateway fails when the gateway cannot be addressed.
func (c *Config) RequireGateway() error {
	if c.Gateway.DNAHash == "" {
		return ErrMissingDNAHash
	}
	return nil
}

// ClientConfig converts the gateway section for gateway.New.
func (c *Config) ClientConfig() gateway.Config {
	return gateway.Config{
		URL:             c.Gateway.URL,
		Timeout:         time.Duration(c.Gateway.Timeout),
		AppID:           c.Gateway.AppID,
		DNAHash:         c.Gateway.DNAHash,
		PayloadEncoding: gateway.PayloadEncoding(c.Gateway.PayloadEncoding),
		HashEncoding:    gateway.HashEncoding(c.Gateway.HashEncoding),
	}
}

// StateKind returns the configured backend kind.
func (c *Config) StateKind() store.Kind {
	return store.Kind(c.State.Backend)
}

// Duration is a time.Duration that reads as a Go duration string ("30s") or
// as whole seconds, and is written to JSON as seconds.
type Duration time.Duration

// ParseDuration accepts "1m30s" style strings and bare seconds ("30", "2.5").
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return Duration(d), nil
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseDuration(n.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, time.Duration(d).Seconds(), 'f', -1, 64), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
