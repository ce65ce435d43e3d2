package app

import (
	"strings"

	"github.com/jobportal/recruitment/internal/auth"
	"github.com/jobportal/recruitment/internal/models"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// SessionOptions converts the session settings into SessionStore options.
func (c AuthConfig) SessionOptions() []auth.SessionOption {
	if c.Session.TTL <= 0 {
		return nil
	}
	return []auth.SessionOption{auth.WithSessionTTL(c.Session.TTL)}
}

// AdminSeed returns the bootstrap admin account, or nil when no admin email
// and password are configured.
func (c AuthConfig) AdminSeed() (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(c.Admin.Email))
	if email == "" || c.Admin.Password == "" {
		return nil, nil
	}

	hash, err := auth.HashPassword(c.Admin.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.Admin.Name)
	if name == "" {
		name = "Portal Admin"
	}
	return &models.User{Name: name, Email: email, Role: models.RoleAdmin, PasswordHash: hash}, nil
}
