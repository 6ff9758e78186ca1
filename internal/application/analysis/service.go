// Package analysis turns a leaf image into exactly one persisted analysis record.
//
// The service tries the remote classifier once, bounded by a timeout, and falls back
// to local simulation on any failure. Both source layouts pass through the same
// normalizer so downstream consumers only ever see domain.AnalysisRecord.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

// Fallback reasons, also used as metric label values.
const (
	ReasonTimeout       = "timeout"
	ReasonStatus        = "status"
	ReasonMalformed     = "malformed"
	ReasonRateLimited   = "rate_limited"
	ReasonNotConfigured = "not_configured"
	ReasonNetwork       = "network"
)

// Observer receives pipeline counters. metrics.Recorder satisfies it.
type Observer interface {
	Analysis(provenance string)
	RemoteFailure(reason string)
}

// Outcome is the result of one Analyze call.
type Outcome struct {
	Record         domain.AnalysisRecord
	Provenance     domain.Provenance
	FallbackReason string
	RemoteError    error
	Persisted      bool
}

// FellBack reports whether the record came from local simulation.
func (o Outcome) FellBack() bool {
	return o.Provenance == domain.ProvenanceLocal
}

// Service is the source selector and fallback orchestrator.
type Service struct {
	classifier ports.Classifier
	simulator  ports.Simulator
	history    ports.HistoryRepository
	logger     ports.Logger
	clock      ports.Clock
	observer   Observer
	timeout    time.Duration
	newID      func(time.Time) string

	wg sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used to stamp records.
func WithClock(clock ports.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithObserver attaches pipeline counters.
func WithObserver(observer Observer) Option {
	return func(s *Service) { s.observer = observer }
}

// WithTimeout bounds the remote attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(fn func(time.Time) string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires the orchestrator. classifier may be nil, in which case every
// analysis is simulated locally.
func NewService(classifier ports.Classifier, simulator ports.Simulator, history ports.HistoryRepository, logger ports.Logger, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		simulator:  simulator,
		history:    history,
		logger:     logger,
		clock:      ports.SystemClock{},
		timeout:    domain.DefaultClassifierTimeout,
		newID:      ulidAt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze classifies image and appends the resulting record to history.
//
// The pipeline runs detached from ctx so that a caller giving up mid-flight does not
// lose the record: when ctx ends first Analyze returns ctx.Err() while the record is
// still produced and persisted in the background. A persistence failure is returned
// alongside a fully populated Outcome.
func (s *Service) Analyze(ctx context.Context, image domain.LeafImage) (Outcome, error) {
	type result struct {
		outcome Outcome
		err     error
	}
	done := make(chan result, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		outcome, err := s.run(context.WithoutCancel(ctx), image)
		done <- result{outcome: outcome, err: err}
	}()

	select {
	case r := <-done:
		return r.outcome, r.err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Wait blocks until every in-flight analysis has finished persisting.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, image domain.LeafImage) (Outcome, error) {
	outcome, remoteErr := s.tryRemote(ctx, image)
	if remoteErr != nil {
		reason := FallbackReason(remoteErr)
		s.logger.Warn("remote classification failed, using local simulation", map[string]interface{}{
			"reason": reason,
			"error":  remoteErr.Error(),
		})
		if s.observer != nil {
			s.observer.RemoteFailure(reason)
		}
		outcome = s.simulate(image)
		outcome.FallbackReason = reason
		outcome.RemoteError = remoteErr
	}

	if s.observer != nil {
		s.observer.Analysis(string(outcome.Provenance))
	}

	if err := s.history.Append(outcome.Record); err != nil {
		s.logger.Error("failed to persist analysis", err, map[string]interface{}{
			"id": outcome.Record.ID,
		})
		return outcome, fmt.Errorf("persist analysis %s: %w", outcome.Record.ID, err)
	}
	outcome.Persisted = true
	s.logger.Info("analysis recorded", map[string]interface{}{
		"id":         outcome.Record.ID,
		"status":     string(outcome.Record.Status),
		"confidence": outcome.Record.Confidence,
		"provenance": string(outcome.Provenance),
	})
	return outcome, nil
}

func (s *Service) tryRemote(ctx context.Context, image domain.LeafImage) (Outcome, error) {
	if s.classifier == nil {
		return Outcome{}, domain.ErrClassifierUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := s.classifier.Classify(callCtx, image)
	if err != nil {
		return Outcome{}, err
	}
	raw, err := Decode(payload)
	if err != nil {
		return Outcome{}, err
	}
	rec, err := Normalize(raw, domain.ProvenanceRemote, s.stamp())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Record: rec, Provenance: domain.ProvenanceRemote}, nil
}

func (s *Service) simulate(image domain.LeafImage) Outcome {
	raw := FromSimulation(s.simulator.Simulate(image))
	rec, err := Normalize(raw, domain.ProvenanceLocal, s.stamp())
	if err != nil {
		// Simulator output is always well formed; keep the one-record guarantee anyway.
		now := s.clock.Now()
		rec = domain.AnalysisRecord{
			ID:          s.newID(now),
			Timestamp:   now,
			Status:      domain.StatusHealthy,
			Result:      domain.HealthyResultLabel,
			Description: defaultDescription(domain.StatusHealthy),
			Provenance:  domain.ProvenanceLocal,
		}.Sanitize()
	}
	return Outcome{Record: rec, Provenance: domain.ProvenanceLocal}
}

func (s *Service) stamp() Stamp {
	now := s.clock.Now()
	return Stamp{ID: s.newID(now), Timestamp: now}
}

// FallbackReason classifies a remote failure into a short label.
func FallbackReason(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	case errors.Is(err, domain.ErrRemoteStatus):
		return ReasonStatus
	case errors.Is(err, domain.ErrMalformedResult),
		errors.Is(err, domain.ErrUnrecognizedResult),
		errors.Is(err, domain.ErrMissingConfidence):
		return ReasonMalformed
	case errors.Is(err, domain.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, domain.ErrClassifierUnavailable):
		return ReasonNotConfigured
	default:
		return ReasonNetwork
	}
}

func ulidAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// ValidateImage applies the upload rules: non-empty, at most MaxImageBytes, and
// content that sniffs as an image.
func ValidateImage(image domain.LeafImage) error {
	if len(image.Data) == 0 {
		return fmt.Errorf("%w: no image data", domain.ErrInvalidImage)
	}
	if len(image.Data) > domain.MaxImageBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrInvalidImage, len(image.Data), domain.MaxImageBytes)
	}
	if sniffed := http.DetectContentType(image.Data); !strings.HasPrefix(sniffed, "image/") {
		return fmt.Errorf("%w: content type %s", domain.ErrInvalidImage, sniffed)
	}
	return nil
}
