package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenInspector looks inside session tokens that happen to be JWTs. It never checks signatures:
// the identity service stays the only authority, the inspector only spares it obviously expired tokens.
type TokenInspector struct {
	parser *jwt.Parser
	leeway time.Duration
	now    func() time.Time
}

// NewTokenInspector builds an inspector tolerating leeway of clock skew.
func NewTokenInspector(leeway time.Duration) *TokenInspector {
	return &TokenInspector{
		parser: jwt.NewParser(),
		leeway: leeway,
		now:    time.Now,
	}
}

// Expired reports whether token is a JWT whose exp claim has passed. Opaque tokens and JWTs without
// exp are never expired.
func (i *TokenInspector) Expired(token string) bool {
	if i == nil {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return i.now().After(claims.ExpiresAt.Time.Add(i.leeway))
}
