package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockPinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected status %s, got %s", Healthy, report.Status)
	}
	for _, name := range []string{"database", "cache", "index"} {
		if report.Checks[name] != CheckOK {
			t.Errorf("expected %s=ok, got %s", name, report.Checks[name])
		}
	}
}

func TestCheck_StoreDownIsUnhealthy(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("refused")}, &mockPinger{}, &mockPinger{})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("expected status %s, got %s", Unhealthy, report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("expected database=error, got %s", report.Checks["database"])
	}
}

func TestCheck_CacheDownIsDegraded(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("refused")}, &mockPinger{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected status %s, got %s", Degraded, report.Status)
	}
	if report.Checks["cache"] != CheckError {
		t.Errorf("expected cache=error, got %s", report.Checks["cache"])
	}
	if report.Checks["database"] != CheckOK {
		t.Errorf("expected database=ok, got %s", report.Checks["database"])
	}
}

func TestCheck_IndexDownIsDegraded(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockPinger{err: errors.New("refused")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected status %s, got %s", Degraded, report.Status)
	}
}

func TestCheck_StoreDownOutranksDegraded(t *testing.T) {
	svc := New(
		&mockPinger{err: errors.New("refused")},
		&mockPinger{err: errors.New("refused")},
		&mockPinger{},
	)

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("expected status %s, got %s", Unhealthy, report.Status)
	}
}

func TestCheck_NilOptionalComponentsSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected status %s, got %s", Healthy, report.Status)
	}
	if _, ok := report.Checks["cache"]; ok {
		t.Error("expected no cache check when unconfigured")
	}
	if _, ok := report.Checks["index"]; ok {
		t.Error("expected no index check when unconfigured")
	}
}
