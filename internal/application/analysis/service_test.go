package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/juaai/jua/internal/application/history"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/infrastructure/storage"
	"github.com/juaai/jua/internal/pkg/logger"
	"github.com/juaai/jua/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type classifierFunc func(ctx context.Context, image domain.LeafImage) ([]byte, error)

func (f classifierFunc) Classify(ctx context.Context, image domain.LeafImage) ([]byte, error) {
	return f(ctx, image)
}

type stubSimulator struct{ result ports.SimulatedResult }

func (s stubSimulator) Simulate(domain.LeafImage) ports.SimulatedResult { return s.result }

type countingObserver struct {
	mu        sync.Mutex
	analyses  map[string]int
	fallbacks map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{analyses: map[string]int{}, fallbacks: map[string]int{}}
}

func (o *countingObserver) Analysis(p string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.analyses[p]++
}

func (o *countingObserver) RemoteFailure(r string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks[r]++
}

var healthySim = stubSimulator{result: ports.SimulatedResult{
	Status:          "healthy",
	Confidence:      91,
	Result:          domain.HealthyResultLabel,
	Description:     "Looks good.",
	Recommendations: []string{"Keep monitoring"},
}}

func newHistory() *history.Store {
	return history.NewStore(persistence.NewAdapter(storage.NewMemoryStore(), nil), 0)
}

func newService(c ports.Classifier, h ports.HistoryRepository, opts ...Option) *Service {
	opts = append([]Option{
		WithClock(fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}),
		WithTimeout(50 * time.Millisecond),
	}, opts...)
	return NewService(c, healthySim, h, logger.NewNop(), opts...)
}

func historyLen(t *testing.T, h ports.HistoryRepository) int {
	t.Helper()
	records, err := h.List(0)
	require.NoError(t, err)
	return len(records)
}

func TestAnalyzeUsesRemoteResult(t *testing.T) {
	h := newHistory()
	svc := newService(classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
		return []byte(`{"prediction":"diseased","confidence":0.82,"suggestions":{"immediate_actions":["Isolate"]}}`), nil
	}), h)

	out, err := svc.Analyze(context.Background(), domain.LeafImage{Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceRemote, out.Provenance)
	assert.False(t, out.FellBack())
	assert.Empty(t, out.FallbackReason)
	assert.True(t, out.Persisted)
	assert.Equal(t, domain.StatusDiseaseDetected, out.Record.Status)
	assert.InDelta(t, 82.0, out.Record.Confidence, 1e-9)
	assert.NotEmpty(t, out.Record.ID)

	stored, found, err := h.Get(out.Record.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.ProvenanceRemote, stored.Provenance)
}

func TestAnalyzedRecordSurvivesPersistence(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
	}{
		{name: "healthy without prevention", payload: `{"prediction":"healthy","confidence":0.82,"suggestions":{"maintenance_tips":["Water"]}}`},
		{name: "diseased without suggestions", payload: `{"prediction":"diseased","confidence":0.7}`},
		{name: "local layout without lists", payload: `{"status":"healthy","confidence":91}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHistory()
			svc := newService(classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return []byte(tc.payload), nil
			}), h)

			out, err := svc.Analyze(context.Background(), domain.LeafImage{Data: pngHeader})
			require.NoError(t, err)
			require.Equal(t, domain.ProvenanceRemote, out.Provenance)

			stored, found, err := h.Get(out.Record.ID)
			require.NoError(t, err)
			require.True(t, found)
			if diff := cmp.Diff(out.Record, stored); diff != "" {
				t.Fatalf("record changed across persistence (-analyzed +stored):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeFallsBackOnce(t *testing.T) {
	for _, tc := range []struct {
		name       string
		classifier ports.Classifier
		reason     string
	}{
		{
			name: "non-success status",
			classifier: classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return nil, fmt.Errorf("%w: 503", domain.ErrRemoteStatus)
			}),
			reason: ReasonStatus,
		},
		{
			name: "timeout",
			classifier: classifierFunc(func(ctx context.Context, _ domain.LeafImage) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
			reason: ReasonTimeout,
		},
		{
			name: "malformed payload",
			classifier: classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return []byte(`<html>oops</html>`), nil
			}),
			reason: ReasonMalformed,
		},
		{
			name: "unrecognized shape",
			classifier: classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return []byte(`{"label":"healthy"}`), nil
			}),
			reason: ReasonMalformed,
		},
		{
			name: "network",
			classifier: classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return nil, errors.New("connection refused")
			}),
			reason: ReasonNetwork,
		},
		{
			name: "rate limited",
			classifier: classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
				return nil, domain.ErrRateLimited
			}),
			reason: ReasonRateLimited,
		},
		{name: "no classifier", classifier: nil, reason: ReasonNotConfigured},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newHistory()
			obs := newCountingObserver()
			svc := newService(tc.classifier, h, WithObserver(obs))

			before := historyLen(t, h)
			out, err := svc.Analyze(context.Background(), domain.LeafImage{Data: pngHeader})
			require.NoError(t, err)

			assert.Equal(t, domain.ProvenanceLocal, out.Provenance)
			assert.Equal(t, domain.ProvenanceLocal, out.Record.Provenance)
			assert.Equal(t, tc.reason, out.FallbackReason)
			assert.Error(t, out.RemoteError)
			assert.Equal(t, domain.StatusHealthy, out.Record.Status)
			assert.Equal(t, 91.0, out.Record.Confidence)
			assert.Equal(t, before+1, historyLen(t, h))
			assert.Equal(t, 1, obs.analyses["local"])
			assert.Equal(t, 1, obs.fallbacks[tc.reason])
		})
	}
}

func TestAnalyzeSurvivesCallerCancellation(t *testing.T) {
	h := newHistory()
	release := make(chan struct{})
	started := make(chan struct{})
	svc := newService(classifierFunc(func(context.Context, domain.LeafImage) ([]byte, error) {
		close(started)
		<-release
		return []byte(`{"prediction":"healthy","confidence":0.9}`), nil
	}), h, WithTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(ctx, domain.LeafImage{Data: pngHeader})
		errc <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	svc.Wait()

	records, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ProvenanceRemote, records[0].Provenance)
}

type failingHistory struct{ *history.Store }

func (failingHistory) Append(domain.AnalysisRecord) error { return history.ErrPersistFailed }

func TestAnalyzeReportsPersistenceFailure(t *testing.T) {
	svc := newService(nil, failingHistory{newHistory()})

	out, err := svc.Analyze(context.Background(), domain.LeafImage{Data: pngHeader})
	require.ErrorIs(t, err, history.ErrPersistFailed)
	assert.False(t, out.Persisted)
	assert.NotEmpty(t, out.Record.ID)
	assert.Equal(t, domain.ProvenanceLocal, out.Provenance)
}

func TestAnalyzeAssignsDistinctIDs(t *testing.T) {
	h := newHistory()
	svc := NewService(nil, healthySim, h, logger.NewNop())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		out, err := svc.Analyze(context.Background(), domain.LeafImage{Data: pngHeader})
		require.NoError(t, err)
		require.False(t, seen[out.Record.ID], "duplicate id %s", out.Record.ID)
		seen[out.Record.ID] = true
	}
	assert.Equal(t, 20, historyLen(t, h))
}

func TestFallbackReasonWrapped(t *testing.T) {
	err := fmt.Errorf("classify: %w", context.DeadlineExceeded)
	assert.Equal(t, ReasonTimeout, FallbackReason(err))
	assert.Equal(t, ReasonMalformed, FallbackReason(fmt.Errorf("x: %w", domain.ErrMissingConfidence)))
}

func TestValidateImage(t *testing.T) {
	for _, tc := range []struct {
		name  string
		data  []byte
		valid bool
	}{
		{"png", pngHeader, true},
		{"jpeg", []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00"), true},
		{"empty", nil, false},
		{"text", []byte("hello, world"), false},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, domain.MaxImageBytes)...), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(domain.LeafImage{Data: tc.data})
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidImage)
		})
	}
}
