package domain

import "time"

// AuditLog represents one security-relevant auth event, e.g. a logout, a
// revoke-all, or a rejected refresh-token reuse.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
