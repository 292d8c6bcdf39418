package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/rcforge/fileenum/internal/branding"
	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const fileType = "yaml"

// Config keys. Flag names match the keys they override.
const (
	KeyRoot           = "root"
	KeyOutput         = "output"
	KeyOrder          = "order"
	KeyRequireVersion = "require_version"
	KeyLogLevel       = "log_level"
)

// Keys lists every recognized config key.
var Keys = []string{KeyRoot, KeyOutput, KeyOrder, KeyRequireVersion, KeyLogLevel}

// Settings is the effective configuration after all layers are applied.
type Settings struct {
	Root           string `yaml:"root"`
	Output         string `yaml:"output"`
	Order          string `yaml:"order"`
	RequireVersion string `yaml:"require_version,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

// Config wraps a Viper instance holding the layered settings.
type Config struct {
	v        *viper.Viper
	path     string
	fileUsed bool
}

// DefaultPath returns the project config path, relative to the working directory.
func DefaultPath() string {
	return branding.ConfigFile()
}

// Load reads the config file at path (DefaultPath when empty) and the
// environment. A missing default config file is not an error; a missing
// explicitly requested file is. The file is schema-validated; violations
// are reported as *InvalidError.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := newViper()
	c := &Config{v: v, path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := checkSchema(path, data); err != nil {
			return nil, err
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		c.fileUsed = true
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No project config; defaults and env only.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return c, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyRoot, enumerate.DefaultRoot)
	v.SetDefault(KeyOutput, enumerate.DefaultManifestName)
	v.SetDefault(KeyOrder, string(enumerate.OrderSorted))
	v.SetDefault(KeyRequireVersion, "")
	v.SetDefault(KeyLogLevel, "")
	return v
}

func checkSchema(path string, data []byte) error {
	result, err := Validate(data)
	if err != nil {
		return fmt.Errorf("validating config %s: %w", path, err)
	}
	if !result.Valid {
		return &InvalidError{Path: path, Issues: result.Issues}
	}
	return nil
}

// BindFlags makes any flag in fs named after a config key override that key.
func (c *Config) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range Keys {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := c.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag --%s: %w", key, err)
		}
	}
	return nil
}

// Path returns the config file path consulted by Load.
func (c *Config) Path() string { return c.path }

// FileUsed reports whether a config file was found and read.
func (c *Config) FileUsed() bool { return c.fileUsed }

// Get returns a config value by key. Returns empty string if not set.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Settings returns the effective settings.
func (c *Config) Settings() Settings {
	return Settings{
		Root:           c.v.GetString(KeyRoot),
		Output:         c.v.GetString(KeyOutput),
		Order:          c.v.GetString(KeyOrder),
		RequireVersion: c.v.GetString(KeyRequireVersion),
		LogLevel:       c.v.GetString(KeyLogLevel),
	}
}

// EnumerateOptions converts the effective settings to generator options.
func (c *Config) EnumerateOptions() (enumerate.Options, error) {
	s := c.Settings()
	order, err := enumerate.ParseOrder(s.Order)
	if err != nil {
		return enumerate.Options{}, err
	}
	opts := enumerate.Options{
		Root:         s.Root,
		ManifestName: s.Output,
		Order:        order,
	}
	if err := opts.Validate(); err != nil {
		return enumerate.Options{}, err
	}
	return opts, nil
}

// IsKey reports whether key is a recognized config key.
func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Set writes a key-value pair to the config file at path, creating the file
// if needed. Only values already in the file are preserved; defaults and
// environment overrides are not written.
func Set(path, key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if path == "" {
		path = DefaultPath()
	}

	fv := viper.New()
	fv.SetConfigType(fileType)
	if data, err := os.ReadFile(path); err == nil {
		if err := fv.ReadConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	fv.Set(key, value)

	out, err := yaml.Marshal(fv.AllSettings())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := checkSchema(path, out); err != nil {
		return err
	}

	if err := fv.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
