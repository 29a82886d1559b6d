// Package service implements the access/refresh token lifecycle: issuance,
// verification, single-use rotation, revocation, and the expired-session sweep.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trainerhub/backend/internal/audit"
	"trainerhub/backend/internal/blacklist"
	"trainerhub/backend/internal/metrics"
	"trainerhub/backend/internal/security"
	sessiondomain "trainerhub/backend/internal/session/domain"
	userdomain "trainerhub/backend/internal/user/domain"
)

// Sentinel errors for the token lifecycle; the transport layer maps them to
// status codes and machine-readable discriminators.
var (
	// ErrTokenRevoked means the access token verified fine but its jti is blacklisted.
	ErrTokenRevoked = errors.New("access token revoked")
	// ErrSessionNotFound means the refresh token is unknown, expired, or already rotated.
	ErrSessionNotFound = errors.New("invalid or expired refresh token")
	// ErrUserDeactivated means the session is valid but its owner is inactive.
	ErrUserDeactivated = errors.New("user account deactivated")
	// ErrInvalidRefreshToken means rotation was attempted on a token that could
	// not be deleted. Deliberately collapses "already used", "revoked", and
	// "never existed" so probing rotation leaks nothing.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrSessionCreation means persisting a new session failed during issuance.
	ErrSessionCreation = errors.New("session creation failed")
	// ErrStoreUnavailable means a backing store failed during verification or revocation.
	ErrStoreUnavailable = errors.New("auth store unavailable")
)

// UserRepo is the read-only user access the token service needs.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// SessionRepo is the minimal session repository needed by the token service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*sessiondomain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*sessiondomain.Session, error)
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
}

// RefreshTokenInput carries the session metadata recorded at issuance and rotation.
type RefreshTokenInput struct {
	UserID     string
	DeviceInfo *sessiondomain.DeviceInfo
	IPAddress  string
}

// RefreshTokenInfo identifies the session a verified refresh token belongs to.
type RefreshTokenInfo struct {
	UserID    string
	SessionID string
}

// TokenService issues, verifies, rotates, and revokes tokens. It holds no
// mutable state beyond its store handles and is safe for concurrent use.
type TokenService struct {
	users      UserRepo
	sessions   SessionRepo
	blacklist  blacklist.Store
	audit      audit.AuditLogger
	tokens     *security.TokenProvider
	refreshTTL time.Duration
	nowF       func() time.Time
}

// NewTokenService returns a TokenService with the given dependencies.
// auditLogger may be nil; audit events are then dropped.
func NewTokenService(
	users UserRepo,
	sessions SessionRepo,
	blacklistStore blacklist.Store,
	auditLogger audit.AuditLogger,
	tokens *security.TokenProvider,
	refreshTTL time.Duration,
) *TokenService {
	return &TokenService{
		users:      users,
		sessions:   sessions,
		blacklist:  blacklistStore,
		audit:      auditLogger,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		nowF:       func() time.Time { return time.Now().UTC() },
	}
}

// AccessTTL returns the configured access-token lifetime, e.g. for an
// expires_in response field.
func (s *TokenService) AccessTTL() time.Duration {
	return s.tokens.AccessTTL()
}

// GenerateAccessToken signs a short-lived access token carrying the user's
// id, email, role, and a fresh jti. It has no side effects beyond randomness.
func (s *TokenService) GenerateAccessToken(user *userdomain.User) (string, error) {
	token, _, err := s.tokens.IssueAccess(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", err
	}
	metrics.AccessTokensIssuedTotal.Inc()
	return token, nil
}

// GenerateRefreshToken creates a new session and returns its raw refresh
// token. The raw value is returned exactly once; only its hash is persisted.
func (s *TokenService) GenerateRefreshToken(ctx context.Context, in RefreshTokenInput) (string, error) {
	raw, err := security.NewRefreshTokenValue()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionCreation, err)
	}
	now := s.nowF()
	sess := &sessiondomain.Session{
		ID:             uuid.New().String(),
		UserID:         in.UserID,
		TokenHash:      security.HashRefreshToken(raw),
		DeviceInfo:     in.DeviceInfo,
		IPAddress:      in.IPAddress,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.refreshTTL),
		LastActivityAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionCreation, err)
	}
	metrics.RefreshTokensIssuedTotal.Inc()
	return raw, nil
}

// VerifyAccessToken validates signature and expiry, then checks the blacklist
// for the token's jti. A blacklisted token fails with ErrTokenRevoked even
// though it would otherwise verify; that is what makes logout effective before
// natural expiry. A blacklist store outage fails open: the token is treated as
// not revoked, logged loudly, and audited, so a cache outage cannot lock out
// every user at once.
func (s *TokenService) VerifyAccessToken(ctx context.Context, token string) (*security.AccessClaims, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.Get(ctx, claims.ID)
	if err != nil {
		log.Error().Err(err).Str("jti", claims.ID).Msg("blacklist store unavailable, failing open")
		metrics.BlacklistFailOpenTotal.Inc()
		s.auditEvent(ctx, claims.Subject, audit.ActionBlacklistFailOpen, "access_token", claims.ID)
		return claims, nil
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// VerifyRefreshToken resolves the raw token to its session and owning user.
// The last-activity update is best-effort and never fails the call.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, rawToken string) (*RefreshTokenInfo, error) {
	sess, err := s.sessions.GetByTokenHash(ctx, security.HashRefreshToken(rawToken))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if sess == nil || !sess.ExpiresAt.After(s.nowF()) {
		return nil, ErrSessionNotFound
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserDeactivated
	}
	if err := s.sessions.UpdateLastActivity(ctx, sess.ID, s.nowF()); err != nil {
		log.Debug().Err(err).Str("session_id", sess.ID).Msg("failed to update session last activity")
	}
	return &RefreshTokenInfo{UserID: sess.UserID, SessionID: sess.ID}, nil
}

// RotateRefreshToken retires the used refresh token and issues its
// replacement. The old session is deleted first; if the delete removes
// nothing (already rotated, revoked, or never issued), rotation fails with
// ErrInvalidRefreshToken and no replacement is issued. Deleting before
// creating is what guarantees at most one caller wins a given token
// generation; under a genuine race both callers may fail, which is acceptable.
func (s *TokenService) RotateRefreshToken(ctx context.Context, oldRawToken string, in RefreshTokenInput) (string, error) {
	deleted, err := s.sessions.DeleteByTokenHash(ctx, security.HashRefreshToken(oldRawToken))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if deleted == 0 {
		metrics.RefreshReplaysRejectedTotal.Inc()
		s.auditEvent(ctx, in.UserID, audit.ActionRefreshReuse, "refresh_token", "")
		return "", ErrInvalidRefreshToken
	}
	raw, err := s.GenerateRefreshToken(ctx, in)
	if err != nil {
		return "", err
	}
	metrics.RefreshRotationsTotal.Inc()
	return raw, nil
}

// RevokeRefreshToken deletes the session matching the token's hash.
// Idempotent: revoking a token that no longer exists is not an error.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	deleted, err := s.sessions.DeleteByTokenHash(ctx, security.HashRefreshToken(rawToken))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if deleted > 0 {
		metrics.SessionsRevokedTotal.Add(float64(deleted))
		s.auditEvent(ctx, "", audit.ActionSessionRevoked, "session", "")
	}
	return nil
}

// RevokeAllUserTokens deletes every session the user owns ("log out
// everywhere") and returns how many were removed.
func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID string) (int64, error) {
	count, err := s.sessions.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.SessionsRevokedTotal.Add(float64(count))
	s.auditEvent(ctx, userID, audit.ActionAllSessionsRevoked, "session", fmt.Sprintf("sessions_revoked=%d", count))
	return count, nil
}

// GetUserSessions returns the user's non-expired sessions for the "manage
// your devices" view. Token hashes are never included.
func (s *TokenService) GetUserSessions(ctx context.Context, userID string) ([]*sessiondomain.Session, error) {
	return s.sessions.ListActiveByUser(ctx, userID, s.nowF())
}

// CleanExpiredTokens deletes all sessions past their expiry and returns the
// exact count removed. Run it on a schedule, outside request handling.
func (s *TokenService) CleanExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.sessions.DeleteExpired(ctx, s.nowF())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.SessionsCleanedTotal.Add(float64(count))
	return count, nil
}

// BlacklistToken marks the access token identified by jti as revoked for the
// access-token TTL, so the entry self-expires no later than the token's
// maximum remaining lifetime.
func (s *TokenService) BlacklistToken(ctx context.Context, jti string) error {
	if err := s.blacklist.Set(ctx, jti, s.tokens.AccessTTL()); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	s.auditEvent(ctx, "", audit.ActionTokenBlacklisted, "access_token", jti)
	return nil
}

// IsTokenBlacklisted reports whether the jti is currently blacklisted.
func (s *TokenService) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.Get(ctx, jti)
}

func (s *TokenService) auditEvent(ctx context.Context, userID, action, resource, metadata string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, userID, action, resource, metadata)
}
