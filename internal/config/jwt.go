package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration from the server section, or nil when
// no secret is configured and auth is disabled.
func (c *Config) JWT() (*JWTConfig, error) {
	if !c.AuthEnabled() {
		return nil, nil
	}
	jc := &JWTConfig{Secret: c.Server.JWTSecret, ExpirationHours: c.Server.JWTExpiration}
	if err := jc.normalize(); err != nil {
		return nil, err
	}
	return jc, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("server.jwt-secret cannot be empty")
	}
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("server.jwt-secret must be at least %d characters, got: %d", minSecretLength, len(c.Secret))
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("server.jwt-expiration-hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

const minSecretLength = 8
