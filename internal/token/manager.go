// Package token issues and verifies the signed, time-bound credentials that
// gate access to the warehouse proxy.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TimeToLiveLayout is the human-readable expiry format stored alongside the
// identity record and embedded in the token for display.
const TimeToLiveLayout = "2006-01-02 15:04:05"

// Verification outcomes. Both deny access; callers surface different
// messages for each.
var (
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload of an issued token.
type Claims struct {
	Email      string `json:"email"`
	TimeToLive string `json:"TimeToLive"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HMAC-SHA256 signed tokens. It is stateless:
// every fact is derived from the token, the shared secret, and the clock.
type Manager struct {
	secret        []byte
	expiryDays    int
	expiryMinutes int
}

// NewManager creates a token manager with the given signing secret and expiry
// window. Expiry is computed as issued-at + days + minutes.
func NewManager(secret string, expiryDays, expiryMinutes int) *Manager {
	return &Manager{
		secret:        []byte(secret),
		expiryDays:    expiryDays,
		expiryMinutes: expiryMinutes,
	}
}

// Issue creates a signed token for the given subject and role, returning the
// token and the human-readable expiry. All timestamps are UTC so issuance and
// verification agree across deployment timezones.
func (m *Manager) Issue(email, role string) (string, string, error) {
	now := time.Now().UTC()
	expiry := now.Add(time.Duration(m.expiryDays)*24*time.Hour + time.Duration(m.expiryMinutes)*time.Minute)
	timeToLive := expiry.Format(TimeToLiveLayout)

	claims := &Claims{
		Email:      email,
		TimeToLive: timeToLive,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	return signed, timeToLive, nil
}

// Verify parses and validates a token, returning its claims. It fails closed:
// an expired token (signature valid, now at or past exp — jwt/v5 accepts a
// token strictly before its exp) returns ErrExpired; any decoding or
// signature failure returns ErrInvalid.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}
