package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		Issuer:    "seminar-hub",
		TokenTTL:  15 * time.Minute,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("profile-1", "t@example.edu")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.ProfileID() != "profile-1" {
		t.Errorf("期望 sub=profile-1，实际=%s", claims.ProfileID())
	}
	if claims.Email != "t@example.edu" {
		t.Errorf("期望 Email=t@example.edu，实际=%s", claims.Email)
	}
	if claims.Issuer != "seminar-hub" {
		t.Errorf("期望 Issuer=seminar-hub，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	claims := Claims{RegisteredClaims: jwtv5.RegisteredClaims{
		Subject:   "profile-1",
		Issuer:    "seminar-hub",
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际 %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-0123456789", Issuer: "seminar-hub"})

	token, _ := other.GenerateToken("profile-1", "")
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", Issuer: "someone-else"})

	token, _ := other.GenerateToken("profile-1", "")
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	m := newTestManager()
	token, _ := m.GenerateToken("", "")
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("空 sub 期望 ErrTokenInvalid，实际 %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not-a-jwt"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}
