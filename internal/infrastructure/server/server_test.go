package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/classifier"
	"github.com/juaai/jua/internal/infrastructure/metrics"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type scriptedRandom struct {
	values []float64
	i      int
}

func (s *scriptedRandom) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T, draws ...float64) *httptest.Server {
	t.Helper()
	if len(draws) == 0 {
		draws = []float64{0.1, 0.5}
	}
	reg := prometheus.NewRegistry()
	srv := New(Config{
		Predictor: NewMockPredictor(&scriptedRandom{values: draws}),
		Recorder:  metrics.NewRecorder(reg),
		Gatherer:  reg,
		Clock:     fixedClock{now: time.UnixMilli(1700000000000)},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["model_loaded"])
	assert.Equal(t, ModelVersion, body["version"])
}

func TestModelInfo(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/model-info")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, []interface{}{"diseased", "healthy"}, body["class_names"])
}

func TestPredictHealthy(t *testing.T) {
	ts := newTestServer(t, 0.1, 0.5)
	body, contentType := multipartBody(t, "image", "leaf.png", pngBytes)
	resp, err := http.Post(ts.URL+"/api/predict", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.Equal(t, "healthy", out["prediction"])
	assert.Equal(t, 85.0, out["confidence"])
	assert.Equal(t, float64(1700000000000), out["timestamp"])
	suggestions := out["suggestions"].(map[string]interface{})
	assert.Contains(t, suggestions, "maintenance_tips")
	assert.NotContains(t, suggestions, "urgency")
}

func TestPredictDiseased(t *testing.T) {
	ts := newTestServer(t, 0.9, 0.25)
	body, contentType := multipartBody(t, "image", "leaf.jpg", pngBytes)
	resp, err := http.Post(ts.URL+"/api/predict", contentType, body)
	require.NoError(t, err)
	out := decode(t, resp)
	assert.Equal(t, "diseased", out["prediction"])
	assert.Equal(t, 75.0, out["confidence"])
	suggestions := out["suggestions"].(map[string]interface{})
	assert.Equal(t, "medium", suggestions["severity"])
	assert.Equal(t, classifier.DiseasedUrgency, suggestions["urgency"])
}

func TestPredictRejects(t *testing.T) {
	ts := newTestServer(t)
	for _, tc := range []struct {
		name     string
		field    string
		filename string
		data     []byte
		status   int
	}{
		{"missing field", "file", "leaf.png", pngBytes, http.StatusBadRequest},
		{"wrong extension", "image", "leaf.gif", pngBytes, http.StatusBadRequest},
		{"not an image", "image", "leaf.png", []byte("plain text"), http.StatusBadRequest},
		{"too large", "image", "leaf.png", append(append([]byte{}, pngBytes...), make([]byte, domain.MaxImageBytes)...), http.StatusRequestEntityTooLarge},
	} {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.field, tc.filename, tc.data)
			resp, err := http.Post(ts.URL+"/api/predict", contentType, body)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			out := decode(t, resp)
			assert.Equal(t, "error", out["status"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestAnalyzeLeafWrapsDiagnosis(t *testing.T) {
	for _, tc := range []struct {
		name       string
		draws      []float64
		prediction string
		confidence float64
		phrase     string
	}{
		{"healthy", []float64{0.1, 0.5}, "healthy", 85, "appears healthy with 85.0% confidence"},
		{"diseased", []float64{0.9, 0.25}, "diseased", 75, "potential disease signs with 75.0% confidence"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.draws...)
			body, contentType := multipartBody(t, "image", "leaf.png", pngBytes)
			resp, err := http.Post(ts.URL+"/api/analyze_leaf", contentType, body)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			out := decode(t, resp)
			diagnosis := out["diagnosis"].(map[string]interface{})
			assert.Equal(t, tc.prediction, diagnosis["prediction"])
			assert.Equal(t, tc.confidence, diagnosis["confidence"])
			assert.Equal(t, MockNote, diagnosis["note"])
			assert.Contains(t, diagnosis, "suggestions")
			assert.Contains(t, out["gemini_ai_response"], tc.phrase)

			features := out["enhanced_features"].(map[string]interface{})
			assert.Equal(t, false, features["gemini_ai_available"])
			assert.Equal(t, ExplanationSourceFallback, features["explanation_source"])
		})
	}
}

func TestAnalyzeLeafAppliesUploadRules(t *testing.T) {
	ts := newTestServer(t)
	body, contentType := multipartBody(t, "image", "leaf.gif", pngBytes)
	resp, err := http.Post(ts.URL+"/api/analyze_leaf", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", decode(t, resp)["status"])
}

func TestPredictNotMultipart(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/predict", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = decode(t, resp)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "error", decode(t, resp)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, 0.1, 0.5)
	body, contentType := multipartBody(t, "image", "leaf.png", pngBytes)
	resp, err := http.Post(ts.URL+"/api/predict", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `jua_server_predictions_total{prediction="healthy"} 1`)
}

func TestRemoteClientAcceptsServerPayload(t *testing.T) {
	ts := newTestServer(t, 0.9, 0.5)
	client := classifier.NewRemoteClient(ts.URL+"/api/predict", ts.Client(), 0)

	payload, err := client.Classify(context.Background(), domain.LeafImage{Filename: "leaf.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"prediction":"diseased"`)

	status, err := classifier.NewHealthClient(ts.URL+"/api/health", ts.Client()).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status)
}
