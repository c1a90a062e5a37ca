package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cppla/inkwell/config"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// ErrSessionRevoked is returned for tokens that were logged out.
var ErrSessionRevoked = errors.New("session revoked")

// SessionClaims identifies the logged in user. The expiry is absolute; it is
// never extended by activity.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session for username valid for ttl.
func GenerateSessionToken(username string, ttl time.Duration) (string, *SessionClaims, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(sessionKey())
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseSessionToken validates signature, expiry and revocation.
func ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionKey(), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return nil, errors.New("invalid session claims")
	}
	if IsTokenBlacklisted(claims.ID) {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

func sessionKey() []byte {
	return []byte(config.Get().App.SessionSecret)
}
