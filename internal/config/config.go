// Package config loads the engine configuration from a config file, ATS_*
// environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/ats-engine/internal/scoring"
)

// EnvPrefix prefixes every environment override, e.g. ATS_SERVER_PORT.
const EnvPrefix = "ATS"

// Config is the complete runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	ABTest   ABTestConfig   `mapstructure:"abtest"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	RateLimit      float64       `mapstructure:"rate-limit" validate:"gt=0"`
	Burst          int           `mapstructure:"burst" validate:"gte=1"`
	RequestTimeout time.Duration `mapstructure:"request-timeout" validate:"gt=0"`
	JWTSecret      string        `mapstructure:"jwt-secret"`
	JWTExpiration  int           `mapstructure:"jwt-expiration-hours" validate:"gte=1"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
}

// DatabaseConfig selects the version store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// ScoringConfig tunes the composite scorer.
type ScoringConfig struct {
	Curve       scoring.Curve `mapstructure:"curve"`
	TopN        int           `mapstructure:"top-n" validate:"gte=1"`
	Workers     int           `mapstructure:"workers" validate:"gte=1"`
	Dictionary  string        `mapstructure:"dictionary"`
	WeightsFile string        `mapstructure:"weights-file"`
}

// ABTestConfig tunes the A/B analyzer.
type ABTestConfig struct {
	MinimumDetectableEffect float64 `mapstructure:"minimum-detectable-effect" validate:"gt=0,lte=10"`
}

// FetchConfig configures job posting ingestion.
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UseBrowser bool          `mapstructure:"use-browser"`
	UserAgent  string        `mapstructure:"user-agent"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers every key with its default so that environment
// variables can override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	curve := scoring.DefaultCurve()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate-limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.request-timeout", 30*time.Second)
	v.SetDefault("server.jwt-secret", "")
	v.SetDefault("server.jwt-expiration-hours", 24)
	v.SetDefault("server.allowed-origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "ats-engine.db")

	v.SetDefault("scoring.curve.threshold", curve.Threshold)
	v.SetDefault("scoring.curve.factor", curve.Factor)
	v.SetDefault("scoring.curve.second-threshold", curve.SecondThreshold)
	v.SetDefault("scoring.curve.second-factor", curve.SecondFactor)
	v.SetDefault("scoring.curve.floor", curve.Floor)
	v.SetDefault("scoring.curve.min-text-length", curve.MinTextLength)
	v.SetDefault("scoring.top-n", 150)
	v.SetDefault("scoring.workers", 4)
	v.SetDefault("scoring.dictionary", "")
	v.SetDefault("scoring.weights-file", "")

	v.SetDefault("abtest.minimum-detectable-effect", 0.2)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.use-browser", false)
	v.SetDefault("fetch.user-agent", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads the configuration into a validated Config. An empty path skips
// the config file and uses defaults plus environment overrides.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks value ranges and the scoring curve.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: %s failed %q constraint", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Scoring.Curve.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// AuthEnabled reports whether bearer tokens are required on version routes.
func (c *Config) AuthEnabled() bool {
	return c.Server.JWTSecret != ""
}
