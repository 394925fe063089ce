package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenService emite y valida los tokens firmados que identifican una
// sesión de quiz. Un solo tipo de token, sin refresh: la sesión expira junto
// con su estado en el store.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var ErrSessionTokenInvalid = errors.New("session token invalid")

func NewSessionTokenService(secret string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "archetype-quiz",
	}
}

// TTL devuelve la vigencia configurada de los tokens.
func (s *SessionTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue firma un token para el session id dado.
func (s *SessionTokenService) Issue(sessionID string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSessionTokenInvalid
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma y expiración, y devuelve los claims.
func (s *SessionTokenService) Parse(raw string) (SessionClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(raw) == "" {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSessionTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	if claims.SessionID == "" || claims.Issuer != s.issuer {
		return SessionClaims{}, ErrSessionTokenInvalid
	}
	return claims, nil
}
