// Package config loads layered service settings with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config gives read access to loaded settings.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string
	GetAll() map[string]interface{}
	// Unmarshal decodes the merged settings into out using mapstructure tags.
	Unmarshal(out interface{}) error
	// ConfigFile returns the file the settings were read from, or "" when
	// only defaults and environment variables were used.
	ConfigFile() string
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string        { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int              { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool            { return c.v.GetBool(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) GetAll() map[string]interface{}     { return c.v.AllSettings() }
func (c *viperConfig) Unmarshal(out interface{}) error    { return c.v.Unmarshal(out) }
func (c *viperConfig) ConfigFile() string                 { return c.v.ConfigFileUsed() }

// Directory searched for configs/{env}/{service}.yaml.
const configDir = "configs"

// Options controls how Load locates and layers settings.
type Options struct {
	// ServiceName names the YAML file (configs/{env}/{service}.yaml) and the
	// environment variable prefix.
	ServiceName string
	// Defaults are applied before the file and the environment. Every key that
	// should be overridable from the environment needs a default.
	Defaults map[string]interface{}
	// EnvAliases binds extra environment variable names to a key, e.g.
	// "gateway.base_url" -> "PAYMENT_GATEWAY_URL".
	EnvAliases map[string]string
}

// Load reads the settings of the named service.
//
// Resolution order: defaults, then the YAML file, then environment variables
// ({SERVICE}_{KEY} with dots replaced by underscores). CONFIG_PATH may point at
// a file; it is an error if that file cannot be read. Without CONFIG_PATH a
// missing file is not an error.
func Load(opts Options) (Config, error) {
	v := viper.New()

	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}

	// environment bindings
	v.SetEnvPrefix(strings.ToUpper(opts.ServiceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range opts.EnvAliases {
		if err := v.BindEnv(key, strings.ToUpper(opts.ServiceName)+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env (%s): %w", key, err)
		}
	}

	v.SetConfigType("yaml")

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		return &viperConfig{v: v}, nil
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // default environment
	}

	v.SetConfigName(opts.ServiceName)
	v.AddConfigPath(filepath.Join(configDir, env))
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
