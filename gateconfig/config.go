// Package gateconfig loads gate settings from configuration files and the
// environment. Files are read with viper, so YAML, JSON and TOML all work;
// an optional .env file is applied first and environment variables prefixed
// with JWTGATE_ override file values.
package gateconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	jwtgate "github.com/gatehouse/go-jwt-gate"
	"github.com/gatehouse/go-jwt-gate/codec"
)

const envPrefix = "JWTGATE"

// Config mirrors the gate settings in file form.
type Config struct {
	Secret     string
	Verify     bool
	Algorithm  string
	CookieName string

	Issuer           string
	Audience         string
	Subject          string
	TokenID          string
	LeewaySeconds    int
	ValidateIssuedAt bool
	RequireExpiry    bool

	Exclude []any
}

// Load reads gate settings. envFile, when non-empty, is applied to the
// process environment first via godotenv; configFile, when non-empty, must
// be readable. Environment variables such as JWTGATE_SECRET or
// JWTGATE_OPTIONS_ALGORITHM override file values.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("verify", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Secret:           v.GetString("secret"),
		Verify:           v.GetBool("verify"),
		Algorithm:        v.GetString("options.algorithm"),
		CookieName:       v.GetString("options.cookie_name"),
		Issuer:           v.GetString("options.issuer"),
		Audience:         v.GetString("options.audience"),
		Subject:          v.GetString("options.subject"),
		TokenID:          v.GetString("options.token_id"),
		LeewaySeconds:    v.GetInt("options.leeway_seconds"),
		ValidateIssuedAt: v.GetBool("options.validate_issued_at"),
		RequireExpiry:    v.GetBool("options.require_expiry"),
	}
	if exclude := v.Get("exclude"); exclude != nil {
		list, ok := exclude.([]any)
		if !ok {
			return nil, fmt.Errorf("exclude must be a list, got %T", exclude)
		}
		cfg.Exclude = list
	}

	return cfg, nil
}

// Options translates the loaded settings into gate options. Exclusion
// entries are parsed here so a malformed file fails before New runs.
func (c *Config) Options() ([]jwtgate.Option, error) {
	var opts []jwtgate.Option

	if c.Secret != "" {
		opts = append(opts, jwtgate.WithSecret(c.Secret))
	}
	if !c.Verify {
		opts = append(opts, jwtgate.WithVerify(false))
	}
	if c.Algorithm != "" {
		opts = append(opts, jwtgate.WithAlgorithm(codec.Algorithm(c.Algorithm)))
	}
	if c.CookieName != "" {
		opts = append(opts, jwtgate.WithCookieName(c.CookieName))
	}

	codecOpts := codec.Options{
		Issuer:           c.Issuer,
		Audience:         c.Audience,
		Subject:          c.Subject,
		TokenID:          c.TokenID,
		Leeway:           time.Duration(c.LeewaySeconds) * time.Second,
		ValidateIssuedAt: c.ValidateIssuedAt,
		RequireExpiry:    c.RequireExpiry,
	}
	if codecOpts != (codec.Options{}) {
		opts = append(opts, jwtgate.WithCodecOptions(codecOpts))
	}

	if len(c.Exclude) > 0 {
		rules, err := jwtgate.ParseExclusions(c.Exclude)
		if err != nil {
			return nil, err
		}
		opts = append(opts, jwtgate.WithExclusions(rules...))
	}

	return opts, nil
}

// Gate is a convenience wrapper constructing a gate straight from the
// loaded settings plus any programmatic overrides.
func (c *Config) Gate(extra ...jwtgate.Option) (*jwtgate.Gate, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return jwtgate.New(append(opts, extra...)...)
}
