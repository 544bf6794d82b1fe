package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenService_IssueParse(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.Issue(" marketing-team ", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "marketing-team" || claims.Issuer != "cdp-query" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret")
	base := time.Now().UTC()
	svc.now = func() time.Time { return base.Add(-2 * time.Hour) }
	token, err := svc.Issue("team", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.now = func() time.Time { return base }
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret")

	other, _ := NewTokenService("other-secret").Issue("team", time.Hour)
	if _, err := svc.Parse(other); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}

	claims := jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "team",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := svc.Parse(foreign); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign issuer, got %v", err)
	}

	if _, err := svc.Issue("  ", time.Hour); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty subject, got %v", err)
	}
	if _, err := svc.Parse(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestTokenService_Disabled(t *testing.T) {
	svc := NewTokenService("")
	if svc.Enabled() {
		t.Fatalf("expected service disabled without secret")
	}
	if _, err := svc.Issue("team", time.Hour); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid when disabled, got %v", err)
	}
}
