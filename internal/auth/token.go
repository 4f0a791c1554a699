package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Claims are the signed session token contents. IsActive is a snapshot of
// the account state at issuance; the live re-check happens in
// ActiveChecker, not here.
type Claims struct {
	UserID   string     `json:"uid"`
	Role     authz.Role `json:"role"`
	TenantID string     `json:"tid"`
	IsActive bool       `json:"active"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256-signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager. The secret must be at least
// 32 bytes.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, errors.New("auth: session secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new session token for the user and returns it together
// with the session it encodes.
func (m *TokenManager) Issue(user *User) (string, *authz.Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID,
		IsActive: user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	sess := &authz.Session{
		UserID:    user.ID,
		Role:      user.Role,
		TenantID:  user.TenantID,
		IsActive:  user.IsActive,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}
	return signed, sess, nil
}

// Resolve validates a token and decodes its claims. Every failure mode
// (malformed, tampered, wrong algorithm, expired, not yet valid) collapses
// to ErrSessionInvalid: callers treat all of them as "no session".
func (m *TokenManager) Resolve(tokenString string) (*authz.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, shared.ErrSessionInvalid
	}
	if !claims.Role.Valid() {
		return nil, shared.ErrSessionInvalid
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &authz.Session{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TenantID:  claims.TenantID,
		IsActive:  claims.IsActive,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}
