package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/anthonydaros/ContractAI/config"
)

// ErrShareNotConfigured means no signing secret is set, so share links
// cannot be issued or verified.
var ErrShareNotConfigured = errors.New("share secret not configured")

// ShareClaims binds a share token to one analysis session.
type ShareClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// ShareLinkService issues and verifies signed share tokens for completed
// analyses. Tokens are HMAC-signed and carry an expiry; anyone holding a
// valid token may view the shared result until it expires.
type ShareLinkService struct {
	config *config.ShareConfig
}

func NewShareLinkService(cfg *config.ShareConfig) *ShareLinkService {
	return &ShareLinkService{config: cfg}
}

// Issue creates a signed token referencing the given session.
func (s *ShareLinkService) Issue(sessionID string) (string, time.Time, error) {
	if s.config.Secret == "" {
		return "", time.Time{}, ErrShareNotConfigured
	}

	expiresAt := time.Now().Add(time.Duration(s.config.ExpireHours) * time.Hour)

	claims := ShareClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign share token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Verify checks a token's signature and expiry and returns the session ID
// it references.
func (s *ShareLinkService) Verify(tokenString string) (string, error) {
	if s.config.Secret == "" {
		return "", ErrShareNotConfigured
	}

	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid share token: %w", err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("invalid share token")
	}

	return claims.SessionID, nil
}
