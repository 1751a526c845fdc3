package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

/*
 JWTCustomClaims

 Token menyimpan:
 - UserID    (uuid)  : identitas user
 - Role      (string): STUDENT / WORKER / WARDEN / STAFF (kosong pada refresh token)
 - TokenType (string): access / refresh, supaya refresh token tidak bisa dipakai sebagai access token
 - ID (jti)          : dipakai blocklist saat logout
*/
type JWTCustomClaims struct {
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager menerbitkan dan memverifikasi access/refresh token.
// Secret dan TTL di-inject dari config, bukan dibaca dari environment global.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateAccessToken membuat access token berumur pendek (default 15 menit).
func (m *TokenManager) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	return m.sign(m.accessSecret, JWTCustomClaims{
		UserID:    userID,
		Role:      role,
		TokenType: TokenTypeAccess,
	}, m.accessTTL)
}

// GenerateRefreshToken membuat refresh token berumur panjang (default 7 hari).
func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return m.sign(m.refreshSecret, JWTCustomClaims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
	}, m.refreshTTL)
}

func (m *TokenManager) sign(secret []byte, claims JWTCustomClaims, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken memverifikasi signature, expiry, dan tipe token.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return m.validate(tokenString, m.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken sama seperti ValidateAccessToken untuk refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return m.validate(tokenString, m.refreshSecret, TokenTypeRefresh)
}

func (m *TokenManager) validate(tokenString string, secret []byte, tokenType string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTCustomClaims{},
		func(t *jwt.Token) (interface{}, error) {
			// hanya HMAC yang diterima
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.New("unexpected token type")
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
