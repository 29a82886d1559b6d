package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-access-secret")

func TestTokenProvider_IssueAndParse(t *testing.T) {
	p := NewTokenProvider(testSecret, 15*time.Minute)

	token, jti, err := p.IssueAccess("u1", "a@b.com", "trainer")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if jti == "" {
		t.Fatal("expected non-empty jti")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(strings.Split(token, ".")))
	}

	claims, err := p.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("sub = %q, want %q", claims.Subject, "u1")
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email = %q, want %q", claims.Email, "a@b.com")
	}
	if claims.Role != "trainer" {
		t.Errorf("role = %q, want %q", claims.Role, "trainer")
	}
	if claims.ID != jti {
		t.Errorf("jti = %q, want %q", claims.ID, jti)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("iat and exp must be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Errorf("exp-iat = %v, want 15m", got)
	}
}

func TestTokenProvider_FreshJTIPerToken(t *testing.T) {
	p := NewTokenProvider(testSecret, time.Minute)

	t1, jti1, err := p.IssueAccess("u1", "a@b.com", "client")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	t2, jti2, err := p.IssueAccess("u1", "a@b.com", "client")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if t1 == t2 {
		t.Error("two tokens for the same user should differ")
	}
	if jti1 == jti2 {
		t.Error("jti must be unique per token")
	}
}

func TestTokenProvider_ExpiredNotSignatureError(t *testing.T) {
	issuer := NewTokenProvider(testSecret, time.Minute)
	issuer.nowF = func() time.Time { return time.Now().UTC().Add(-time.Hour) }

	token, _, err := issuer.IssueAccess("u1", "a@b.com", "client")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	verifier := NewTokenProvider(testSecret, time.Minute)
	_, err = verifier.ParseAccess(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ParseAccess expired token: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_ZeroTTLAlwaysExpired(t *testing.T) {
	issuer := NewTokenProvider(testSecret, 0)
	issuer.nowF = func() time.Time { return time.Now().UTC().Add(-time.Second) }

	token, _, err := issuer.IssueAccess("u1", "a@b.com", "client")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	_, err = NewTokenProvider(testSecret, time.Minute).ParseAccess(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_FlippedSignatureByte(t *testing.T) {
	p := NewTokenProvider(testSecret, 15*time.Minute)
	token, _, err := p.IssueAccess("u1", "a@b.com", "admin")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	dot := strings.LastIndex(token, ".")
	sig := token[dot+1:]
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		mutated[i] ^= 0x01
		corrupted := token[:dot+1] + string(mutated)
		if corrupted == token {
			continue
		}
		_, err := p.ParseAccess(corrupted)
		if !errors.Is(err, ErrTokenSignature) {
			t.Fatalf("flipped signature byte %d: want ErrTokenSignature, got %v", i, err)
		}
	}
}

func TestTokenProvider_WrongSecret(t *testing.T) {
	token, _, err := NewTokenProvider([]byte("other-secret"), time.Minute).IssueAccess("u1", "a@b.com", "client")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	_, err = NewTokenProvider(testSecret, time.Minute).ParseAccess(token)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("want ErrTokenSignature, got %v", err)
	}
}

func TestTokenProvider_MalformedTokens(t *testing.T) {
	p := NewTokenProvider(testSecret, time.Minute)
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d", "!!.!!.!!"} {
		_, err := p.ParseAccess(tok)
		if !errors.Is(err, ErrTokenSignature) {
			t.Errorf("ParseAccess(%q): want ErrTokenSignature, got %v", tok, err)
		}
	}
}

func TestTokenProvider_RejectsAlgNone(t *testing.T) {
	p := NewTokenProvider(testSecret, time.Minute)
	// {"alg":"none","typ":"JWT"}.{"sub":"u1"}. with empty signature
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1MSJ9."
	_, err := p.ParseAccess(unsigned)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("alg=none token: want ErrTokenSignature, got %v", err)
	}
}
