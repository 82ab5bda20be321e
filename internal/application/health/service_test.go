package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	corehealth "sedeges/ms_hojas_ruta/internal/core/health"
)

func TestNewService(t *testing.T) {
	meta := Metadata{Service: "test-service", Version: "1.0.0", Environment: "test"}

	service := NewService(meta)

	if service == nil {
		t.Fatal("expected service to be created, got nil")
	}
	if service.meta != meta {
		t.Error("expected service to have the provided metadata")
	}
	if service.startedAt.IsZero() {
		t.Error("expected startedAt to be set")
	}
}

func TestService_Status(t *testing.T) {
	meta := Metadata{Service: "test-service", Version: "1.0.0", Environment: "test"}

	service := NewService(meta)
	time.Sleep(10 * time.Millisecond)

	status := service.Status(context.Background())

	if status.Service != meta.Service {
		t.Errorf("expected service %q, got %q", meta.Service, status.Service)
	}
	if status.Version != meta.Version {
		t.Errorf("expected version %q, got %q", meta.Version, status.Version)
	}
	if status.Status != "UP" {
		t.Errorf("expected status 'UP', got %q", status.Status)
	}
	if !status.StartedAt.Equal(service.startedAt) {
		t.Errorf("expected startedAt to match service start time")
	}
	if status.Uptime == "" {
		t.Error("expected uptime to be set")
	}
	if len(status.Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %v", status.Dependencies)
	}
}

func TestService_Status_Dependencies(t *testing.T) {
	service := NewService(Metadata{Service: "s"},
		Check{Name: "postgres", Probe: func(ctx context.Context) error { return nil }},
		Check{Name: "s3", Probe: func(ctx context.Context) error { return errors.New("bucket not found") }},
	)

	status := service.Status(context.Background())

	if status.Status != "DOWN" {
		t.Errorf("expected DOWN when a dependency fails, got %q", status.Status)
	}
	expected := []corehealth.Dependency{
		{Name: "postgres", Status: "UP"},
		{Name: "s3", Status: "DOWN", Error: "bucket not found"},
	}
	if diff := cmp.Diff(expected, status.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Status_ProbeGetsDeadline(t *testing.T) {
	var hasDeadline bool
	service := NewService(Metadata{}, Check{Name: "postgres", Probe: func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}})

	service.Status(context.Background())

	if !hasDeadline {
		t.Error("expected probe context to carry a deadline")
	}
}
