package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (CCMATE_HOME, CCMATE_VERBOSE).
const EnvPrefix = "CCMATE"

// Config represents ~/.ccconfig/config.yaml.
type Config struct {
	// Home overrides the directory the engine treats as the user's home.
	Home    string `mapstructure:"home"`
	Verbose bool   `mapstructure:"verbose"`
	Debug   bool   `mapstructure:"debug"`
}

// Load reads the config file at path and applies CCMATE_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("home", "")
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("checking config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
