package health

import (
	"context"
	"time"

	corehealth "sedeges/ms_hojas_ruta/internal/core/health"
)

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Check probes one backing service.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	checks    []Check
	timeout   time.Duration
	startedAt time.Time
}

func NewService(meta Metadata, checks ...Check) *Service {
	return &Service{
		meta:      meta,
		checks:    checks,
		timeout:   2 * time.Second,
		startedAt: time.Now().UTC(),
	}
}

// Status returns the current availability snapshot. The service is DOWN when
// any dependency fails its probe.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := time.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      "UP",
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}

	for _, check := range s.checks {
		dep := corehealth.Dependency{Name: check.Name, Status: "UP"}

		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := check.Probe(probeCtx)
		cancel()

		if err != nil {
			dep.Status = "DOWN"
			dep.Error = err.Error()
			status.Status = "DOWN"
		}
		status.Dependencies = append(status.Dependencies, dep)
	}

	return status
}
