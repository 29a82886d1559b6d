package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenSignature is returned when a token is malformed, tampered with,
	// or signed with an unexpected key or algorithm.
	ErrTokenSignature = errors.New("invalid access token")
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed. Callers use this to trigger a silent refresh instead
	// of forcing re-login.
	ErrTokenExpired = errors.New("access token expired")
)

// AccessClaims holds the JWT claims of an access token. The jti (RegisteredClaims.ID)
// is unique per token and is the key used for blacklisting.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenProvider signs and verifies access tokens using HS256 with a shared
// server secret.
type TokenProvider struct {
	secret    []byte
	accessTTL time.Duration
	nowF      func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with secret and issues
// tokens valid for accessTTL.
func NewTokenProvider(secret []byte, accessTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:    secret,
		accessTTL: accessTTL,
		nowF:      func() time.Time { return time.Now().UTC() },
	}
}

// AccessTTL returns the configured access-token lifetime. The blacklist uses
// it as the entry TTL so a revocation marker never outlives the token itself.
func (p *TokenProvider) AccessTTL() time.Duration {
	return p.accessTTL
}

// IssueAccess signs a new access token for the given user. Returns the compact
// token string and its jti. Two calls with identical inputs produce different
// tokens (fresh jti and issued-at).
func (p *TokenProvider) IssueAccess(userID, email, role string) (token string, jti string, err error) {
	jti = uuid.New().String()
	now := p.nowF()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.accessTTL)),
		},
		Email: email,
		Role:  role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	return token, jti, err
}

// ParseAccess verifies the signature and structure of tokenString and returns
// its claims. Returns ErrTokenExpired when the signature is valid but exp has
// passed; ErrTokenSignature for every other failure. A tampered token is
// always ErrTokenSignature, even when its exp has also passed.
func (p *TokenProvider) ParseAccess(tokenString string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.nowF),
	)
	token, err := parser.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenSignature
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenSignature
	}
	return claims, nil
}
