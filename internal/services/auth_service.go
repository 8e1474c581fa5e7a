package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/oauth"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

// AuthService signs users in through OAuth providers and issues the storefront's bearer tokens.
type AuthService struct {
	providers oauth.Registry
	states    repositories.OAuthStateRepository
	metrics   *metrics.Metrics
	jwtSecret []byte
	tokenTTL  time.Duration
	stateTTL  time.Duration
	now       func() time.Time
}

// AuthConfig holds the token and state settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	StateTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(providers oauth.Registry, states repositories.OAuthStateRepository, cfg AuthConfig, m *metrics.Metrics) *AuthService {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	stateTTL := cfg.StateTTL
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	return &AuthService{
		providers: providers,
		states:    states,
		metrics:   m,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  tokenTTL,
		stateTTL:  stateTTL,
		now:       time.Now,
	}
}

func (s *AuthService) provider(name string) (oauth.Provider, error) {
	p, ok := s.providers.Get(name)
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("unknown login provider %q", name))
	}
	return p, nil
}

// BeginLogin stores a fresh state for provider and returns the URL to send the browser to.
func (s *AuthService) BeginLogin(ctx context.Context, providerName string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}

	state := uuid.NewString()
	if err := s.states.Save(ctx, state, p.Name(), s.stateTTL); err != nil {
		slog.ErrorContext(ctx, "failed to save oauth state", "provider", p.Name(), "error", err)
		return "", apperrors.Service("failed to start login", err)
	}
	return p.AuthCodeURL(state), nil
}

// CompleteLogin checks state, exchanges code with the provider and returns a signed token for
// the signed-in user.
func (s *AuthService) CompleteLogin(ctx context.Context, providerName, code, state string) (token string, err error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	defer func() { s.metrics.OAuthLogin(p.Name(), err) }()

	if state == "" {
		return "", apperrors.Unauthorized("missing login state")
	}
	bound, ok, err := s.states.Consume(ctx, state)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume oauth state", "provider", p.Name(), "error", err)
		return "", apperrors.Service(fmt.Sprintf("an error occurred while processing %s login", p.Name()), err)
	}
	if !ok || bound != p.Name() {
		return "", apperrors.Unauthorized("invalid or expired login state")
	}
	if code == "" {
		return "", apperrors.Validation("missing authorization code")
	}

	accessToken, err := p.Exchange(ctx, code, state)
	if err != nil {
		slog.ErrorContext(ctx, "oauth token exchange failed", "provider", p.Name(), "error", err)
		return "", apperrors.Service(fmt.Sprintf("an error occurred while processing %s login", p.Name()), err)
	}

	profile, err := p.FetchIdentity(ctx, accessToken)
	if err != nil {
		slog.ErrorContext(ctx, "oauth profile request failed", "provider", p.Name(), "error", err)
		return "", apperrors.Service(fmt.Sprintf("an error occurred while processing %s login", p.Name()), err)
	}

	slog.InfoContext(ctx, "oauth login completed", "provider", p.Name(), "user_id", profile.ID)
	return s.IssueToken(models.Identity{
		ID:       profile.ID,
		Email:    profile.Email,
		Name:     profile.Name,
		Provider: p.Name(),
	})
}

// IssueToken signs an HS256 token for identity that expires after the configured TTL.
func (s *AuthService) IssueToken(identity models.Identity) (string, error) {
	now := s.now()
	claims := models.Claims{
		ID:       identity.ID,
		Email:    identity.Email,
		Provider: identity.Provider,
		Name:     identity.Name,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Service("failed to generate token", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "invalid or expired token", err)
	}
	if !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

// Providers lists the names of the configured login providers.
func (s *AuthService) Providers() []string {
	return s.providers.Names()
}
