package app

import "github.com/sajjaddev-web/desk/internal/auth"

// TokenServiceConfig converts AuthConfig into the parameters expected by
// the token service.
func (c AuthConfig) TokenServiceConfig() auth.TokenConfig {
	sessionTTL := c.Session.TTL
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionTokenTTL
	}

	activationTTL := c.Activation.TTL
	if activationTTL <= 0 {
		activationTTL = auth.DefaultActivationTokenTTL
	}

	return auth.TokenConfig{
		SessionSecret:    c.Session.Secret,
		ActivationSecret: c.Activation.Secret,
		Issuer:           c.Issuer,
		SessionTTL:       sessionTTL,
		ActivationTTL:    activationTTL,
	}
}
