// Package internaldefs holds the shared counter definitions used by every
// metrics exporter, so the Prometheus and OTel views stay in sync.
package internaldefs

import (
	gatekit "github.com/dkrylov/gatekit"
)

// CounterDef ties an engine counter to its exporter-facing name and help
// text.
type CounterDef struct {
	ID   gatekit.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: gatekit.MetricLoginSuccess, Name: "gatekit_login_success_total", Help: "Successful login attempts."},
	{ID: gatekit.MetricLoginFailure, Name: "gatekit_login_failure_total", Help: "Failed login attempts."},
	{ID: gatekit.MetricLoginDisabled, Name: "gatekit_login_disabled_total", Help: "Logins rejected because the account is disabled."},
	{ID: gatekit.MetricRefreshSuccess, Name: "gatekit_refresh_success_total", Help: "Successful token refreshes."},
	{ID: gatekit.MetricRefreshFailure, Name: "gatekit_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: gatekit.MetricAccessVerified, Name: "gatekit_access_verified_total", Help: "Access tokens that verified end to end."},
	{ID: gatekit.MetricAccessRejected, Name: "gatekit_access_rejected_total", Help: "Access tokens rejected during verification."},
	{ID: gatekit.MetricAccessRevoked, Name: "gatekit_access_revoked_total", Help: "Access tokens rejected because they were revoked."},
	{ID: gatekit.MetricLogout, Name: "gatekit_logout_total", Help: "Logout operations."},
	{ID: gatekit.MetricRoleDenied, Name: "gatekit_role_denied_total", Help: "Requests denied by role enforcement."},
	{ID: gatekit.MetricSweepEvicted, Name: "gatekit_sweep_evicted_total", Help: "Expired revocation entries evicted by the sweeper."},
}

// AuditDroppedName is the counter reporting audit queue overflow.
const AuditDroppedName = "gatekit_audit_dropped_total"

// AuditDroppedHelp documents AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
