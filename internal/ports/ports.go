// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the analysis pipeline to remain independent of specific
// implementations like storage backends, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Classifier, KeyValueStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/juaai/jua/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.jua/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// KeyValueStore is the host-provided durable storage: namespaced get/set/remove of
// serialized values. It is shared by history, cache and preferences.
type KeyValueStore interface {
	Get(namespace string) ([]byte, bool, error)
	Set(namespace string, value []byte) error
	Remove(namespace string) error
	Namespaces(prefix string) ([]string, error)
}

// Classifier sends a leaf image to the remote classification endpoint and returns
// the raw JSON payload it answered with.
type Classifier interface {
	Classify(ctx context.Context, image domain.LeafImage) ([]byte, error)
}

// HealthProber asks the remote backend whether it is up.
type HealthProber interface {
	Probe(ctx context.Context) (string, error)
}

// Simulator produces a local classification result when the remote path fails.
type Simulator interface {
	Simulate(image domain.LeafImage) SimulatedResult
}

// SimulatedResult is the flat result layout produced by local simulation.
type SimulatedResult struct {
	Status          string   `json:"status"`
	Confidence      float64  `json:"confidence"`
	Result          string   `json:"result"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	Prevention      []string `json:"prevention,omitempty"`
	Symptoms        []string `json:"symptoms,omitempty"`
	Severity        string   `json:"severity,omitempty"`
}

// HistoryRepository persists analysis records, newest first.
type HistoryRepository interface {
	Append(domain.AnalysisRecord) error
	List(limit int) ([]domain.AnalysisRecord, error)
	Get(id string) (domain.AnalysisRecord, bool, error)
	Remove(id string) error
	Clear() error
	Statistics() (domain.HistoryStatistics, error)
}

// ReferenceSource exposes the static disease database and localized tips.
type ReferenceSource interface {
	Diseases() []domain.Disease
	TipSet(language string) (domain.TipSet, bool)
	Languages() []string
}

// RandomSource yields uniform floats in [0,1). Injected so simulations are
// reproducible under test.
type RandomSource interface {
	Float64() float64
}

// Clock abstracts wall time for cache expiry and record stamping.
type Clock interface {
	Now() time.Time
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }
