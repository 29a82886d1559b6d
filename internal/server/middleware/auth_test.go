package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"trainerhub/backend/internal/security"
	"trainerhub/backend/internal/token/service"
)

// stubVerifier returns fixed claims or a fixed error regardless of the token.
type stubVerifier struct {
	claims *security.AccessClaims
	err    error
}

func (v stubVerifier) VerifyAccessToken(ctx context.Context, token string) (*security.AccessClaims, error) {
	return v.claims, v.err
}

func okVerifier() stubVerifier {
	return stubVerifier{claims: &security.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ID: "jti-1"},
		Email:            "a@b.com",
		Role:             "trainer",
	}}
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, header string, next http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Error("error body should carry a message")
	}
	return body.Code
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rec := serve(t, Authenticate(okVerifier()), "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := decodeCode(t, rec); code != CodeTokenRequired {
		t.Errorf("code = %q, want %q", code, CodeTokenRequired)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	for _, header := range []string{
		"tok-en",
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer  ",
		"Bearer a b",
	} {
		rec := serve(t, Authenticate(okVerifier()), header, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
		if code := decodeCode(t, rec); code != CodeInvalidTokenFormat {
			t.Errorf("header %q: code = %q, want %q", header, code, CodeInvalidTokenFormat)
		}
	}
}

func TestAuthenticate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"expired", security.ErrTokenExpired, CodeTokenExpired},
		{"revoked", service.ErrTokenRevoked, CodeTokenRevoked},
		{"bad signature", security.ErrTokenSignature, CodeInvalidToken},
		{"other", errors.New("boom"), CodeInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, Authenticate(stubVerifier{err: tc.err}), "Bearer some-token", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if code := decodeCode(t, rec); code != tc.code {
				t.Errorf("code = %q, want %q", code, tc.code)
			}
		})
	}
}

func TestAuthenticate_ValidTokenSetsIdentity(t *testing.T) {
	var gotUser, gotEmail, gotRole, gotJTI string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserID(r.Context())
		gotEmail, _ = GetEmail(r.Context())
		gotRole, _ = GetRole(r.Context())
		gotJTI, _ = GetTokenID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := serve(t, Authenticate(okVerifier()), "Bearer good-token", next)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "u1" || gotEmail != "a@b.com" || gotRole != "trainer" || gotJTI != "jti-1" {
		t.Errorf("identity = {%q %q %q %q}, want {u1 a@b.com trainer jti-1}", gotUser, gotEmail, gotRole, gotJTI)
	}
}

func TestAuthenticate_BearerCaseInsensitive(t *testing.T) {
	rec := serve(t, Authenticate(okVerifier()), "bearer good-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	chain := func(role string) http.Handler {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		h := RequireRole("admin", "trainer")(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithIdentity(r.Context(), "u1", "a@b.com", role, "jti-1")
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)

	rec := httptest.NewRecorder()
	chain("trainer").ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("trainer: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	chain("client").ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client: status = %d, want 403", rec.Code)
	}
	if code := decodeCode(t, rec); code != CodeForbidden {
		t.Errorf("code = %q, want %q", code, CodeForbidden)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	RequireRole("admin")(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := decodeCode(t, rec); code != CodeTokenRequired {
		t.Errorf("code = %q, want %q", code, CodeTokenRequired)
	}
}
