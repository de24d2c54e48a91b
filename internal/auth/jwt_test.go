package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifier(t *testing.T) {
	v := NewVerifier("test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := v.Sign("user-1", time.Hour)
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		claims, err := v.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.CallerID() != "user-1" {
			t.Errorf("CallerID() = %q, want user-1", claims.CallerID())
		}
	})

	t.Run("sub claim only", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, _ := token.SignedString([]byte("test-secret"))

		claims, err := v.Validate(signed)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.CallerID() != "user-2" {
			t.Errorf("CallerID() = %q, want user-2", claims.CallerID())
		}
	})

	tests := []struct {
		name  string
		token func() string
	}{
		{"expired", func() string {
			s, _ := v.Sign("user-1", -time.Minute)
			return s
		}},
		{"wrong secret", func() string {
			s, _ := NewVerifier("other").Sign("user-1", time.Hour)
			return s
		}},
		{"no expiry", func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).SignedString([]byte("test-secret"))
			return s
		}},
		{"no subject", func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}).SignedString([]byte("test-secret"))
			return s
		}},
		{"garbage", func() string { return "not-a-token" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token())
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
