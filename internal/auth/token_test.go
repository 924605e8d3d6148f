package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenInspector_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	signed := func(claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	inspector := NewTokenInspector(30 * time.Second)
	inspector.now = func() time.Time { return now }

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "opaque", token: "abc123", want: false},
		{name: "empty", token: "", want: false},
		{name: "no exp", token: signed(jwt.RegisteredClaims{Subject: "42"}), want: false},
		{name: "future exp", token: signed(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}), want: false},
		{name: "within leeway", token: signed(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}), want: false},
		{name: "past leeway", token: signed(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inspector.Expired(tt.token))
		})
	}
}

func TestTokenInspector_Nil(t *testing.T) {
	var inspector *TokenInspector
	assert.False(t, inspector.Expired("anything"))
}
