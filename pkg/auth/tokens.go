package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

// DefaultTokenTTL is the lifetime of tokens minted by IssueToken.
const DefaultTokenTTL = time.Hour

// TokenConfig holds token verification configuration.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// TokenClaims is the JWT payload carrying the identity claims the
// access policy evaluates.
type TokenClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id,omitempty"`
}

// TokenService verifies bearer tokens issued by the identity provider.
// It can also mint tokens for local development and tests.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a new token service.
func NewTokenService(config TokenConfig) *TokenService {
	if config.TTL == 0 {
		config.TTL = DefaultTokenTTL
	}
	return &TokenService{config: config}
}

// Verify validates a token and returns the identity claims it asserts.
// The user ID falls back to the subject when no user_id claim is present.
func (s *TokenService) Verify(tokenString string) (policy.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.config.Secret, nil
	}, opts...)
	if err != nil {
		return policy.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return policy.Claims{}, domain.ErrInvalidToken
	}

	return claims.toPolicy()
}

func (c *TokenClaims) toPolicy() (policy.Claims, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return policy.Claims{}, err
	}

	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return policy.Claims{}, fmt.Errorf("%w: tenant_id is not a UUID", domain.ErrInvalidToken)
	}

	rawUserID := c.UserID
	if rawUserID == "" {
		rawUserID = c.Subject
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return policy.Claims{}, fmt.Errorf("%w: user_id is not a UUID", domain.ErrInvalidToken)
	}

	return policy.Claims{Role: role, TenantID: tenantID, UserID: userID}, nil
}

// IssueToken signs a token asserting the given claims.
func (s *TokenService) IssueToken(claims policy.Claims, now time.Time) (string, error) {
	payload := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			Issuer:    s.config.Issuer,
			ID:        uuid.New().String(),
		},
		Role:     claims.Role.String(),
		TenantID: claims.TenantID.String(),
		UserID:   claims.UserID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(s.config.Secret)
}
