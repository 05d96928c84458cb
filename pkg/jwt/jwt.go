package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"weld-oee/backend/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const issuer = "weld-oee"

// Identity who the token speaks for. WorkerID and ShiftID are set only for
// shop-floor sessions.
type Identity struct {
	UserID   uint
	WorkerID uint
	ShiftID  uint
	Role     string
}

// Claims custom JWT claims
type Claims struct {
	UserID   uint   `json:"user_id"`
	WorkerID uint   `json:"worker_id,omitempty"`
	ShiftID  uint   `json:"shift_id,omitempty"`
	Role     string `json:"role"`
	jwtv5.RegisteredClaims
}

// Manager signs and verifies tokens
type Manager struct {
	secret         []byte
	accessTokenTTL time.Duration
}

// NewManager creates a Manager
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// GenerateAccessToken signs an access token for the identity
func (m *Manager) GenerateAccessToken(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   id.UserID,
		WorkerID: id.WorkerID,
		ShiftID:  id.ShiftID,
		Role:     id.Role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// TTL access token lifetime
func (m *Manager) TTL() time.Duration {
	return m.accessTokenTTL
}

// ParseToken verifies the signature and expiry
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
