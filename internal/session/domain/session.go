package domain

import "time"

// DeviceInfo is the client-reported device metadata recorded on a session.
// It is opaque to the token core and surfaced on the "manage your devices" view.
type DeviceInfo struct {
	UserAgent string `json:"userAgent,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Browser   string `json:"browser,omitempty"`
	Version   string `json:"version,omitempty"`
}

// Session binds a refresh token's hash to its owning user. A session exists
// if and only if its refresh token is currently valid: rotation, revocation,
// and the expiry sweep all delete the row.
type Session struct {
	ID             string
	UserID         string
	TokenHash      string // SHA-256 hex of the raw refresh token; never the raw value
	DeviceInfo     *DeviceInfo
	IPAddress      string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastActivityAt time.Time
}
