// Package config loads the settings shared by the helpers: outbound proxy,
// HTTP timeout and logging.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KomoriDev/go-ability/log"
)

// EnvPrefix namespaces the automatic environment lookups, e.g.
// ABILITY_LOG_PRETTY for log.pretty.
const EnvPrefix = "ABILITY"

// DefaultHTTPTimeout applies when http_timeout is unset or unparsable.
const DefaultHTTPTimeout = 30 * time.Second

// Ability is the library-wide configuration decoded by LoadAbility.
type Ability struct {
	ProxyURL    string        `mapstructure:"proxy_url"`
	HTTPTimeout time.Duration `mapstructure:"-"`
	Log         log.Config    `mapstructure:"log"`
}

// Load reads the first configName.{json,yaml,yml,toml,...} found in paths,
// then "." and "./config". A missing file is not an error; settings then
// come from defaults and the environment.
func Load(configName string, paths ...string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(configName)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return v, nil
}

// LoadAbility decodes the ability settings from v, applying defaults and
// the PROXY_URL, HTTP_TIMEOUT and LOG_LEVEL environment overrides, which
// are read without EnvPrefix.
// http_timeout accepts a Go duration ("15s") or a number of seconds ("7.5").
func LoadAbility(v *viper.Viper) (*Ability, error) {
	v.SetDefault("proxy_url", "")
	v.SetDefault("http_timeout", DefaultHTTPTimeout.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.name", "")

	// BindEnv only fails when called without a key.
	_ = v.BindEnv("proxy_url", "PROXY_URL")
	_ = v.BindEnv("http_timeout", "HTTP_TIMEOUT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Ability
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.HTTPTimeout = parseTimeout(v, "http_timeout", DefaultHTTPTimeout)

	return &cfg, nil
}

func parseTimeout(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	if d, err := time.ParseDuration(str); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(str, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultVal
}
