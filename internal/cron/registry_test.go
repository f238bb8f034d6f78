package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndSkipsNil(t *testing.T) {
	expiry := &stubJob{name: "session-expiry"}
	refresh := &stubJob{name: "catalog-refresh"}
	registry := NewRegistry(expiry, nil)
	registry.Register(nil)
	registry.Register(refresh)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != expiry || jobs[1] != refresh {
		t.Fatalf("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}

func TestRegistryReplacesJobWithSameName(t *testing.T) {
	first := &stubJob{name: "session-expiry"}
	refresh := &stubJob{name: "catalog-refresh"}
	second := &stubJob{name: "session-expiry"}
	registry := NewRegistry(first, refresh, second)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != second {
		t.Fatalf("expected replacement to keep the original slot")
	}
	names := registry.Names()
	if names[0] != "session-expiry" || names[1] != "catalog-refresh" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestZeroRegistryAcceptsJobs(t *testing.T) {
	var registry Registry
	registry.Register(&stubJob{name: "catalog-refresh"})
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected zero registry to accept a job")
	}
}
