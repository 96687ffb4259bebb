package core

import (
	"context"
	"sort"
	"time"
)

// HealthCheck reports whether one backing store is reachable.
type HealthCheck func(ctx context.Context) error

// SystemStatus is the aggregated /healthz body.
type SystemStatus struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	UptimeSeconds int64             `json:"uptime_seconds"`
}

// Healthy reports whether every check passed.
func (s SystemStatus) Healthy() bool {
	return s.Status == "ok"
}

// CollectSystemStatus runs every check with a shared deadline and aggregates the result.
func CollectSystemStatus(ctx context.Context, checks map[string]HealthCheck, startedAt time.Time) SystemStatus {
	st := SystemStatus{Status: "ok", Checks: make(map[string]string, len(checks))}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			st.Checks[name] = err.Error()
			st.Status = "degraded"
			continue
		}
		st.Checks[name] = "ok"
	}

	if !startedAt.IsZero() {
		st.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}
	return st
}
