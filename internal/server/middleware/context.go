package middleware

import "context"

type contextKey struct{ name string }

var (
	userIDKey = contextKey{"user_id"}
	emailKey  = contextKey{"email"}
	roleKey   = contextKey{"role"}
	jtiKey    = contextKey{"jti"}
)

// WithIdentity returns a context carrying the verified token's user id,
// email, role, and jti. Handlers read these via GetUserID, GetEmail,
// GetRole, GetTokenID.
func WithIdentity(ctx context.Context, userID, email, role, jti string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, emailKey, email)
	ctx = context.WithValue(ctx, roleKey, role)
	ctx = context.WithValue(ctx, jtiKey, jti)
	return ctx
}

// GetUserID returns the user id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetEmail returns the email from context and true if set; otherwise "", false.
func GetEmail(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey).(string)
	return v, ok
}

// GetRole returns the role from context and true if set; otherwise "", false.
func GetRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(roleKey).(string)
	return v, ok
}

// GetTokenID returns the access token's jti from context and true if set;
// otherwise "", false.
func GetTokenID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(jtiKey).(string)
	return v, ok
}
