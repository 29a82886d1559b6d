// Package metrics holds the Prometheus instruments for the token core.
// Counters register on the default registry; expose them with promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessTokensIssuedTotal counts signed access tokens handed out.
	AccessTokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_access_tokens_issued_total",
		Help: "Total number of access tokens issued.",
	})
	// RefreshTokensIssuedTotal counts refresh tokens created (login and rotation).
	RefreshTokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_refresh_tokens_issued_total",
		Help: "Total number of refresh tokens issued.",
	})
	// RefreshRotationsTotal counts successful refresh-token rotations.
	RefreshRotationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_refresh_rotations_total",
		Help: "Total number of successful refresh token rotations.",
	})
	// RefreshReplaysRejectedTotal counts rotation attempts on tokens that no
	// longer exist (already rotated, revoked, or never issued).
	RefreshReplaysRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_refresh_replays_rejected_total",
		Help: "Total number of rejected refresh token reuse attempts.",
	})
	// SessionsRevokedTotal counts sessions removed by explicit revocation.
	SessionsRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_sessions_revoked_total",
		Help: "Total number of sessions removed by revocation.",
	})
	// SessionsCleanedTotal counts sessions removed by the expiry sweep.
	SessionsCleanedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_sessions_cleaned_total",
		Help: "Total number of expired sessions removed by the cleanup sweep.",
	})
	// BlacklistFailOpenTotal counts access-token verifications that proceeded
	// without a blacklist answer because the store was unavailable.
	BlacklistFailOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainerhub_blacklist_fail_open_total",
		Help: "Total number of verifications that failed open on a blacklist store error.",
	})
)
