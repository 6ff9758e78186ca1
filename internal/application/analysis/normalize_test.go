package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

var testStamp = Stamp{ID: "01HTESTSTAMP", Timestamp: time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)}

func TestDecodeDetectsShape(t *testing.T) {
	remote, err := Decode([]byte(`{"prediction":"healthy","confidence":0.9}`))
	require.NoError(t, err)
	assert.IsType(t, RemoteResult{}, remote)

	local, err := Decode([]byte(`{"status":"healthy","confidence":90}`))
	require.NoError(t, err)
	assert.IsType(t, LocalResult{}, local)

	_, err = Decode([]byte(`{"confidence":90}`))
	require.ErrorIs(t, err, domain.ErrUnrecognizedResult)

	_, err = Decode([]byte(`not json`))
	require.ErrorIs(t, err, domain.ErrMalformedResult)

	_, err = Decode([]byte(`{"prediction":["healthy"]}`))
	require.ErrorIs(t, err, domain.ErrMalformedResult)
}

func TestNormalizeRemoteDiseased(t *testing.T) {
	raw, err := Decode([]byte(`{
		"prediction": "diseased",
		"confidence": 0.82,
		"suggestions": {
			"immediate_actions": ["Isolate affected plants"],
			"treatment_options": ["Apply copper fungicide"],
			"prevention_tips": ["Rotate crops"],
			"severity": "high",
			"urgency": "Act within 24 hours"
		}
	}`))
	require.NoError(t, err)

	rec, err := Normalize(raw, domain.ProvenanceRemote, testStamp)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDiseaseDetected, rec.Status)
	assert.InDelta(t, 82.0, rec.Confidence, 1e-9)
	assert.Equal(t, []string{"Isolate affected plants", "Apply copper fungicide"}, rec.Recommendations)
	assert.Equal(t, []string{"Rotate crops"}, rec.Prevention)
	assert.Equal(t, domain.SeverityHigh, rec.Severity)
	assert.Equal(t, "Disease Detected", rec.Result)
	assert.Contains(t, rec.Description, "Act within 24 hours")
	assert.Equal(t, domain.ProvenanceRemote, rec.Provenance)
	assert.Equal(t, testStamp.ID, rec.ID)
	assert.True(t, rec.Timestamp.Equal(testStamp.Timestamp))
}

func TestNormalizeRemoteHealthy(t *testing.T) {
	raw, err := Decode([]byte(`{
		"prediction": "healthy",
		"confidence": 0.9,
		"suggestions": {
			"maintenance_tips": ["Keep watering"],
			"next_steps": ["Check again next week"],
			"severity": "high"
		}
	}`))
	require.NoError(t, err)

	rec, err := Normalize(raw, domain.ProvenanceRemote, testStamp)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHealthy, rec.Status)
	assert.Equal(t, domain.SeverityNone, rec.Severity)
	assert.Equal(t, domain.HealthyResultLabel, rec.Result)
	assert.Equal(t, []string{"Keep watering", "Check again next week"}, rec.Recommendations)
}

func TestNormalizeRemotePercentConfidence(t *testing.T) {
	raw, err := Decode([]byte(`{"prediction":"healthy","confidence":87.5}`))
	require.NoError(t, err)
	rec, err := Normalize(raw, domain.ProvenanceRemote, testStamp)
	require.NoError(t, err)
	assert.InDelta(t, 87.5, rec.Confidence, 1e-9)
}

func TestNormalizeLocalKeepsFields(t *testing.T) {
	raw, err := Decode([]byte(`{
		"status": "disease_detected",
		"confidence": 77,
		"result": "Bean Rust",
		"description": "Rust-colored pustules.",
		"recommendations": ["Remove infected leaves"],
		"prevention": ["Plant resistant varieties"],
		"symptoms": ["Orange pustules"]
	}`))
	require.NoError(t, err)

	rec, err := Normalize(raw, domain.ProvenanceLocal, testStamp)
	require.NoError(t, err)
	assert.Equal(t, "Bean Rust", rec.Result)
	assert.Equal(t, 77.0, rec.Confidence)
	assert.Equal(t, domain.SeverityMedium, rec.Severity)
	assert.Equal(t, []string{"Orange pustules"}, rec.Symptoms)
	assert.Equal(t, domain.ProvenanceLocal, rec.Provenance)
}

func TestNormalizeClampsConfidence(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
		want    float64
	}{
		{"above range", `{"status":"healthy","confidence":150}`, 100},
		{"negative", `{"status":"healthy","confidence":-5}`, 0},
		{"remote negative", `{"prediction":"healthy","confidence":-0.2}`, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Decode([]byte(tc.payload))
			require.NoError(t, err)
			rec, err := Normalize(raw, domain.ProvenanceLocal, testStamp)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.Confidence)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
		want    error
	}{
		{"missing confidence", `{"prediction":"healthy"}`, domain.ErrMissingConfidence},
		{"unknown prediction", `{"prediction":"cat","confidence":0.9}`, domain.ErrUnrecognizedResult},
		{"error status", `{"status":"error","confidence":0}`, domain.ErrUnrecognizedResult},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Decode([]byte(tc.payload))
			require.NoError(t, err)
			_, err = Normalize(raw, domain.ProvenanceRemote, testStamp)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFromSimulation(t *testing.T) {
	rec, err := Normalize(FromSimulation(ports.SimulatedResult{
		Status:          "disease_detected",
		Confidence:      72,
		Result:          "Late Blight",
		Description:     "Water-soaked lesions.",
		Recommendations: []string{"Remove infected plants"},
		Severity:        "high",
	}), domain.ProvenanceLocal, testStamp)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityHigh, rec.Severity)
	assert.Equal(t, "Late Blight", rec.Result)
	assert.Equal(t, 72.0, rec.Confidence)
}

func TestSeverityNoneExactlyWhenHealthy(t *testing.T) {
	statuses := []string{"healthy", "diseased", "disease_detected", "HEALTHY"}
	severities := []string{"", "none", "low", "moderate", "high", "critical", "bogus"}
	confidences := []string{"-3", "0", "0.5", "1", "55", "100", "250"}

	for _, status := range statuses {
		for _, severity := range severities {
			for _, conf := range confidences {
				payloads := []string{
					`{"prediction":"` + status + `","confidence":` + conf + `,"suggestions":{"severity":"` + severity + `"}}`,
					`{"status":"` + status + `","confidence":` + conf + `,"severity":"` + severity + `"}`,
				}
				for _, payload := range payloads {
					raw, err := Decode([]byte(payload))
					require.NoError(t, err, payload)
					rec, err := Normalize(raw, domain.ProvenanceLocal, testStamp)
					require.NoError(t, err, payload)

					assert.Equal(t, rec.Status == domain.StatusHealthy, rec.Severity == domain.SeverityNone, payload)
					assert.GreaterOrEqual(t, rec.Confidence, domain.MinConfidence, payload)
					assert.LessOrEqual(t, rec.Confidence, domain.MaxConfidence, payload)
				}
			}
		}
	}
}
