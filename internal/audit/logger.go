// Package audit records security-relevant auth events (logouts, revocations,
// rejected refresh reuse) to a persistent log. Writes are best-effort and
// never fail the calling operation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trainerhub/backend/internal/audit/domain"
	auditrepo "trainerhub/backend/internal/audit/repository"
)

// Actions recorded by the token core.
const (
	ActionSessionRevoked     = "session_revoked"
	ActionAllSessionsRevoked = "all_sessions_revoked"
	ActionTokenBlacklisted   = "token_blacklisted"
	ActionRefreshReuse       = "refresh_reuse_rejected"
	ActionBlacklistFailOpen  = "blacklist_fail_open"
)

// IPExtractor returns the client IP from the request context, when the
// transport layer has recorded one.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor
// for the client IP. ipExtractor may be nil; then the IP is left empty.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := ""
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit: failed to persist event")
	}
}
