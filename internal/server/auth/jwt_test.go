package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()
	s, err := NewTokenService(TokenConfig{
		Secret:     []byte(secret),
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return s
}

func TestIssueAndVerify_Access(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "super-secret")

	tok, err := s.IssueAccess("a@x.com")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	sub, err := s.Verify(tok, AccessToken)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if sub != "a@x.com" {
		t.Fatalf("subject mismatch: got %q", sub)
	}
}

func TestVerify_WrongKind(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret")

	access, _ := s.IssueAccess("a@x.com")
	refresh, _ := s.IssueRefresh("a@x.com")

	if _, err := s.Verify(access, RefreshToken); !errors.Is(err, common.ErrWrongTokenKind) {
		t.Fatalf("access as refresh: want ErrWrongTokenKind, got %v", err)
	}
	if _, err := s.Verify(refresh, AccessToken); !errors.Is(err, common.ErrWrongTokenKind) {
		t.Fatalf("refresh as access: want ErrWrongTokenKind, got %v", err)
	}
	if sub, err := s.Verify(refresh, RefreshToken); err != nil || sub != "a@x.com" {
		t.Fatalf("refresh as refresh: got %q, %v", sub, err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret")
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	access, _ := s.IssueAccess("a@x.com")
	refresh, _ := s.IssueRefresh("a@x.com")

	s.now = func() time.Time { return issued.Add(30*time.Minute + time.Second) }

	if _, err := s.Verify(access, AccessToken); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
	if _, err := s.Verify(refresh, RefreshToken); err != nil {
		t.Fatalf("refresh token must outlive access token: %v", err)
	}

	s.now = func() time.Time { return issued.Add(7*24*time.Hour + time.Second) }
	if _, err := s.Verify(refresh, RefreshToken); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired for refresh, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _ := newTestTokenService(t, "right-secret").IssueAccess("a@x.com")

	_, err := newTestTokenService(t, "wrong-secret").Verify(tok, AccessToken)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "k")
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := s.Verify(tok, AccessToken); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("%q: want ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "k")

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Kind: AccessToken,
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(hs512, AccessToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("HS512 token accepted by HS256 service: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := s.Verify(none, AccessToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("unsigned token accepted: %v", err)
	}
}

func TestVerify_MissingExpOrSubject(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "k")

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
		Kind:             AccessToken,
	}).SignedString([]byte("k"))
	if _, err := s.Verify(noExp, AccessToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("token without exp: want ErrInvalidToken, got %v", err)
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Kind:             AccessToken,
	}).SignedString([]byte("k"))
	if _, err := s.Verify(noSub, AccessToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("token without sub: want ErrInvalidToken, got %v", err)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "k")
	a, _ := s.IssueAccess("a@x.com")
	b, _ := s.IssueAccess("a@x.com")
	if a == b {
		t.Fatal("tokens issued in the same second must differ by jti")
	}
}

func TestNewTokenService_Validation(t *testing.T) {
	t.Parallel()

	base := TokenConfig{Secret: []byte("k"), Algorithm: "HS256", AccessTTL: time.Minute, RefreshTTL: time.Hour}

	tests := []struct {
		name   string
		mutate func(c *TokenConfig)
		substr string
	}{
		{"empty secret", func(c *TokenConfig) { c.Secret = nil }, "secret"},
		{"rsa algorithm", func(c *TokenConfig) { c.Algorithm = "RS256" }, "unsupported"},
		{"unknown algorithm", func(c *TokenConfig) { c.Algorithm = "XYZ" }, "unsupported"},
		{"zero ttl", func(c *TokenConfig) { c.AccessTTL = 0 }, "lifetimes"},
	}

	for _, tt := range tests {
		cfg := base
		tt.mutate(&cfg)
		_, err := NewTokenService(cfg)
		if err == nil || !strings.Contains(err.Error(), tt.substr) {
			t.Fatalf("%s: want error containing %q, got %v", tt.name, tt.substr, err)
		}
	}

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		cfg := base
		cfg.Algorithm = alg
		if _, err := NewTokenService(cfg); err != nil {
			t.Fatalf("%s should be accepted: %v", alg, err)
		}
	}
}
