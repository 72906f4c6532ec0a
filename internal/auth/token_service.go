package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default validity periods for issued tokens.
const (
	DefaultSessionTokenTTL    = 15 * time.Minute
	DefaultActivationTokenTTL = 24 * time.Hour
)

// ErrInvalidToken is returned whenever a token fails verification: bad
// signature, wrong signing key, malformed input, expiry, or missing claims.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenConfig bundles the configuration required to build a TokenService.
// Session and activation tokens are signed with independent secrets so one
// kind can never be replayed as the other.
type TokenConfig struct {
	SessionSecret    string
	ActivationSecret string
	Issuer           string
	SessionTTL       time.Duration
	ActivationTTL    time.Duration
	Clock            func() time.Time
}

// SessionClaims identify the acting account to authorised calls.
type SessionClaims struct {
	AccountID uint   `json:"aid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// ActivationClaims prove the right to flip an account's verified flag.
type ActivationClaims struct {
	AccountID uint `json:"aid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session and activation tokens.
type TokenService struct {
	sessionSecret    []byte
	activationSecret []byte
	issuer           string
	sessionTTL       time.Duration
	activationTTL    time.Duration
	now              func() time.Time
}

// NewTokenService constructs a TokenService, failing fast on missing or
// shared secrets.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("auth: session secret must be provided")
	}
	if cfg.ActivationSecret == "" {
		return nil, errors.New("auth: activation secret must be provided")
	}
	if cfg.SessionSecret == cfg.ActivationSecret {
		return nil, errors.New("auth: session and activation secrets must differ")
	}

	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTokenTTL
	}

	activationTTL := cfg.ActivationTTL
	if activationTTL <= 0 {
		activationTTL = DefaultActivationTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		sessionSecret:    []byte(cfg.SessionSecret),
		activationSecret: []byte(cfg.ActivationSecret),
		issuer:           cfg.Issuer,
		sessionTTL:       sessionTTL,
		activationTTL:    activationTTL,
		now:              now,
	}, nil
}

// IssueSessionToken signs a session token identifying the given account.
func (s *TokenService) IssueSessionToken(accountID uint, name, email string) (string, error) {
	if accountID == 0 {
		return "", errors.New("auth: account id is required")
	}

	claims := &SessionClaims{
		AccountID:        accountID,
		Name:             name,
		Email:            email,
		RegisteredClaims: s.registeredClaims(accountID, s.sessionTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}

	return signed, nil
}

// VerifySessionToken parses and validates a session token.
func (s *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := s.parse(tokenString, s.sessionSecret, &claims); err != nil {
		return nil, err
	}

	if claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// IssueActivationToken signs a single-purpose activation token.
func (s *TokenService) IssueActivationToken(accountID uint) (string, error) {
	if accountID == 0 {
		return "", errors.New("auth: account id is required")
	}

	claims := &ActivationClaims{
		AccountID:        accountID,
		RegisteredClaims: s.registeredClaims(accountID, s.activationTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.activationSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign activation token: %w", err)
	}

	return signed, nil
}

// VerifyActivationToken parses and validates an activation token.
func (s *TokenService) VerifyActivationToken(tokenString string) (*ActivationClaims, error) {
	var claims ActivationClaims
	if err := s.parse(tokenString, s.activationSecret, &claims); err != nil {
		return nil, err
	}

	if claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

func (s *TokenService) registeredClaims(accountID uint, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", accountID),
		Issuer:    s.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

func (s *TokenService) parse(tokenString string, secret []byte, claims jwt.Claims) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.issuer != "" {
		issuer, issErr := claims.GetIssuer()
		if issErr != nil || issuer != s.issuer {
			return ErrInvalidToken
		}
	}

	return nil
}
