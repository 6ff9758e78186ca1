package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

const probeNamespace = "doctor_probe"

// Service runs installation diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.KeyValueStore
	Prober         ports.HealthProber
	Reference      ports.ReferenceSource
	History        ports.HistoryRepository
	ProbeTimeout   time.Duration
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.storageCheck(cfg))
	checks = append(checks, s.backendCheck(ctx, cfg))

	if s.Reference != nil {
		diseases := s.Reference.Diseases()
		langs := s.Reference.Languages()
		if len(diseases) == 0 {
			checks = append(checks, warn("Reference data", "disease database is empty; simulations use a generic label"))
		} else {
			checks = append(checks, ok("Reference data", fmt.Sprintf("%d diseases, tips in %v", len(diseases), langs)))
		}
	}

	if s.History != nil {
		if stats, err := s.History.Statistics(); err == nil {
			checks = append(checks, ok("History", fmt.Sprintf("%d of %d records", stats.Total, cfg.History.MaxEntries)))
		} else {
			checks = append(checks, warn("History", err.Error()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) storageCheck(cfg domain.Config) domain.HealthCheck {
	if s.Store == nil {
		return warn("Storage", "storage not initialized")
	}
	if err := s.Store.Set(probeNamespace, []byte(`{}`)); err != nil {
		return fail("Storage", fmt.Sprintf("%s backend not writable: %v", cfg.Storage.Backend, err))
	}
	if err := s.Store.Remove(probeNamespace); err != nil {
		return warn("Storage", fmt.Sprintf("probe cleanup failed: %v", err))
	}
	return ok("Storage", fmt.Sprintf("%s backend writable", cfg.Storage.Backend))
}

func (s *Service) backendCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Prober == nil || cfg.Classifier.HealthEndpoint == "" {
		return warn(domain.BackendCheckName, "no health endpoint configured; analyses run locally")
	}
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = domain.DefaultHealthProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := s.Prober.Probe(probeCtx)
	if err != nil {
		return warn(domain.BackendCheckName, fmt.Sprintf("unreachable (%v); analyses fall back to local simulation", err))
	}
	if status != "healthy" && status != "ok" {
		return warn(domain.BackendCheckName, fmt.Sprintf("reported %q", status))
	}
	return ok(domain.BackendCheckName, fmt.Sprintf("%s is %s", cfg.Classifier.HealthEndpoint, status))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
