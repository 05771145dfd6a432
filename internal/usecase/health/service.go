// Package health aggregates backend availability checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure: cache or index down, store up.
	Degraded Status = "degraded"
	// Unhealthy indicates the authoritative store is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks. The store is the only hard dependency;
// a down cache or index degrades the service but does not break it.
type Service struct {
	store Pinger
	cache Pinger
	index Pinger
}

// New creates a Service. cache and index may be nil.
func New(store, cache, index Pinger) *Service {
	return &Service{store: store, cache: cache, index: index}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for name, p := range map[string]Pinger{"cache": s.cache, "index": s.index} {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
