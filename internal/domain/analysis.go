// Package domain defines core business entities and value objects for jua.
//
// This file contains the canonical analysis record produced for every leaf image
// submitted for classification. The domain layer is independent of infrastructure
// concerns and represents pure business rules and data structures.
package domain

import "time"

// AnalysisStatus is the health verdict of an analysis.
type AnalysisStatus string

const (
	StatusHealthy         AnalysisStatus = "healthy"
	StatusDiseaseDetected AnalysisStatus = "disease_detected"
)

// Severity grades how urgently a detected disease needs attention.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Provenance records which source produced an analysis.
type Provenance string

const (
	ProvenanceRemote Provenance = "remote"
	ProvenanceLocal  Provenance = "local"
)

// Confidence bounds, expressed as a percentage.
const (
	MinConfidence = 0.0
	MaxConfidence = 100.0
)

// HealthyResultLabel is the display label used for healthy verdicts.
const HealthyResultLabel = "Healthy Crop"

// AnalysisRecord is the canonical unit of work product. Records are immutable once
// created and removed only by explicit deletion or history eviction.
type AnalysisRecord struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"timestamp"`
	Status          AnalysisStatus `json:"status"`
	Confidence      float64        `json:"confidence"`
	Result          string         `json:"result"`
	Description     string         `json:"description"`
	Recommendations []string       `json:"recommendations"`
	Prevention      []string       `json:"prevention"`
	Symptoms        []string       `json:"symptoms"`
	Severity        Severity       `json:"severity"`
	Provenance      Provenance     `json:"provenance"`
}

// IsHealthy reports whether the record carries a healthy verdict.
func (r AnalysisRecord) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Sanitize enforces the record invariants: confidence within [0,100], severity none
// exactly when healthy, and non-nil list fields so a record survives a JSON
// round trip unchanged.
func (r AnalysisRecord) Sanitize() AnalysisRecord {
	r.Confidence = ClampConfidence(r.Confidence)
	if r.Status != StatusHealthy {
		r.Status = StatusDiseaseDetected
	}
	switch {
	case r.Status == StatusHealthy:
		r.Severity = SeverityNone
	case !r.Severity.Valid() || r.Severity == SeverityNone:
		r.Severity = SeverityMedium
	}
	r.Recommendations = nonNil(r.Recommendations)
	r.Prevention = nonNil(r.Prevention)
	r.Symptoms = nonNil(r.Symptoms)
	return r
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// ClampConfidence forces a percentage into [MinConfidence, MaxConfidence].
// NaN collapses to MinConfidence.
func ClampConfidence(value float64) float64 {
	if value != value || value < MinConfidence {
		return MinConfidence
	}
	if value > MaxConfidence {
		return MaxConfidence
	}
	return value
}

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// ParseSeverity maps free text onto a severity, returning false when unknown.
func ParseSeverity(raw string) (Severity, bool) {
	switch Severity(normalizeToken(raw)) {
	case SeverityNone:
		return SeverityNone, true
	case SeverityLow, "mild", "minor":
		return SeverityLow, true
	case SeverityMedium, "moderate":
		return SeverityMedium, true
	case SeverityHigh, "severe", "critical":
		return SeverityHigh, true
	default:
		return "", false
	}
}
