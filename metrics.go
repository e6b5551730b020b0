package gatekit

import "sync/atomic"

// MetricID identifies one internal counter.
type MetricID int

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginDisabled
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricAccessVerified
	MetricAccessRejected
	MetricAccessRevoked
	MetricLogout
	MetricRoleDenied
	MetricSweepEvicted

	metricCount
)

var metricNames = [metricCount]string{
	MetricLoginSuccess:   "login_success_total",
	MetricLoginFailure:   "login_failure_total",
	MetricLoginDisabled:  "login_disabled_total",
	MetricRefreshSuccess: "refresh_success_total",
	MetricRefreshFailure: "refresh_failure_total",
	MetricAccessVerified: "access_verified_total",
	MetricAccessRejected: "access_rejected_total",
	MetricAccessRevoked:  "access_revoked_total",
	MetricLogout:         "logout_total",
	MetricRoleDenied:     "role_denied_total",
	MetricSweepEvicted:   "sweep_evicted_total",
}

// String returns the stable exporter-facing name of the counter.
func (id MetricID) String() string {
	if id < 0 || id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// MetricIDs returns every defined counter, in declaration order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// counters is a fixed set of lock-free event counters. A disabled set
// keeps the zero values and skips all stores.
type counters struct {
	enabled atomic.Bool
	vals    [metricCount]atomic.Uint64
}

func newCounters(enabled bool) *counters {
	c := &counters{}
	c.enabled.Store(enabled)
	return c
}

func (c *counters) add(id MetricID, n uint64) {
	if c == nil || !c.enabled.Load() {
		return
	}
	if id < 0 || id >= metricCount {
		return
	}
	c.vals[id].Add(n)
}

func (c *counters) inc(id MetricID) { c.add(id, 1) }

// snapshot copies the current counter values.
func (c *counters) snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricCount)
	for i := MetricID(0); i < metricCount; i++ {
		out[i] = c.vals[i].Load()
	}
	return out
}
