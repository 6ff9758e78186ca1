package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

// RawResult is a classification result in one of the source-specific layouts.
type RawResult interface {
	shape() string
}

// RemoteResult is the layout served by the classification backend: a prediction
// label, a 0-1 confidence and nested suggestions.
type RemoteResult struct {
	Prediction      string             `json:"prediction"`
	Confidence      *float64           `json:"confidence"`
	Disease         string             `json:"disease,omitempty"`
	Description     string             `json:"description,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Suggestions     *RemoteSuggestions `json:"suggestions,omitempty"`
}

// RemoteSuggestions is the nested guidance object of a RemoteResult.
type RemoteSuggestions struct {
	ImmediateActions []string `json:"immediate_actions"`
	TreatmentOptions []string `json:"treatment_options"`
	MaintenanceTips  []string `json:"maintenance_tips"`
	PreventionTips   []string `json:"prevention_tips"`
	NextSteps        []string `json:"next_steps"`
	Severity         string   `json:"severity"`
	Urgency          string   `json:"urgency"`
}

// LocalResult is the flat layout: a status, a 0-100 confidence and flat lists.
type LocalResult struct {
	Status          string   `json:"status"`
	Confidence      *float64 `json:"confidence"`
	Result          string   `json:"result,omitempty"`
	Description     string   `json:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Prevention      []string `json:"prevention,omitempty"`
	Symptoms        []string `json:"symptoms,omitempty"`
	Severity        string   `json:"severity,omitempty"`
}

func (RemoteResult) shape() string { return "remote" }
func (LocalResult) shape() string  { return "local" }

// FromSimulation lifts a simulator result into the flat layout.
func FromSimulation(sim ports.SimulatedResult) LocalResult {
	confidence := sim.Confidence
	return LocalResult{
		Status:          sim.Status,
		Confidence:      &confidence,
		Result:          sim.Result,
		Description:     sim.Description,
		Recommendations: sim.Recommendations,
		Prevention:      sim.Prevention,
		Symptoms:        sim.Symptoms,
		Severity:        sim.Severity,
	}
}

// Decode detects the layout of a JSON payload. A payload carrying "prediction"
// is a RemoteResult; otherwise one carrying "status" is a LocalResult.
func Decode(payload []byte) (RawResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResult, err)
	}
	if _, ok := probe["prediction"]; ok {
		var r RemoteResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResult, err)
		}
		return r, nil
	}
	if _, ok := probe["status"]; ok {
		var l LocalResult
		if err := json.Unmarshal(payload, &l); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResult, err)
		}
		return l, nil
	}
	return nil, domain.ErrUnrecognizedResult
}

// Stamp carries the identity assigned to a record at creation.
type Stamp struct {
	ID        string
	Timestamp time.Time
}

// Normalize converts raw into the canonical record, tagged with provenance.
func Normalize(raw RawResult, provenance domain.Provenance, stamp Stamp) (domain.AnalysisRecord, error) {
	var (
		rec domain.AnalysisRecord
		err error
	)
	switch r := raw.(type) {
	case RemoteResult:
		rec, err = normalizeRemote(r)
	case *RemoteResult:
		rec, err = normalizeRemote(*r)
	case LocalResult:
		rec, err = normalizeLocal(r)
	case *LocalResult:
		rec, err = normalizeLocal(*r)
	default:
		err = domain.ErrUnrecognizedResult
	}
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	rec.ID = stamp.ID
	rec.Timestamp = stamp.Timestamp
	rec.Provenance = provenance
	return rec.Sanitize(), nil
}

func normalizeRemote(r RemoteResult) (domain.AnalysisRecord, error) {
	status, ok := parseStatus(r.Prediction)
	if !ok {
		return domain.AnalysisRecord{}, fmt.Errorf("%w: prediction %q", domain.ErrUnrecognizedResult, r.Prediction)
	}
	if r.Confidence == nil {
		return domain.AnalysisRecord{}, domain.ErrMissingConfidence
	}

	s := RemoteSuggestions{}
	if r.Suggestions != nil {
		s = *r.Suggestions
	}
	rec := domain.AnalysisRecord{
		Status:          status,
		Confidence:      fractionToPercent(*r.Confidence),
		Result:          r.Disease,
		Description:     r.Description,
		Recommendations: concat(s.ImmediateActions, s.TreatmentOptions, s.MaintenanceTips, s.NextSteps, r.Recommendations),
		Prevention:      concat(s.PreventionTips),
	}
	rec.Severity = deriveSeverity(status, s.Severity)
	if rec.Result == "" {
		rec.Result = defaultLabel(status)
	}
	if rec.Description == "" {
		rec.Description = defaultDescription(status)
	}
	if urgency := strings.TrimSpace(s.Urgency); urgency != "" && status == domain.StatusDiseaseDetected {
		rec.Description = strings.TrimSpace(rec.Description + " " + urgency + ".")
	}
	return rec, nil
}

func normalizeLocal(l LocalResult) (domain.AnalysisRecord, error) {
	status, ok := parseStatus(l.Status)
	if !ok {
		return domain.AnalysisRecord{}, fmt.Errorf("%w: status %q", domain.ErrUnrecognizedResult, l.Status)
	}
	if l.Confidence == nil {
		return domain.AnalysisRecord{}, domain.ErrMissingConfidence
	}
	rec := domain.AnalysisRecord{
		Status:          status,
		Confidence:      *l.Confidence,
		Result:          l.Result,
		Description:     l.Description,
		Recommendations: concat(l.Recommendations),
		Prevention:      concat(l.Prevention),
		Symptoms:        concat(l.Symptoms),
		Severity:        deriveSeverity(status, l.Severity),
	}
	if rec.Result == "" {
		rec.Result = defaultLabel(status)
	}
	if rec.Description == "" {
		rec.Description = defaultDescription(status)
	}
	return rec, nil
}

func parseStatus(raw string) (domain.AnalysisStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "healthy":
		return domain.StatusHealthy, true
	case "diseased", "disease_detected", "disease":
		return domain.StatusDiseaseDetected, true
	default:
		return "", false
	}
}

// fractionToPercent scales a [0,1] fraction to a percentage. Values above 1 are
// already percentages.
func fractionToPercent(v float64) float64 {
	if v >= 0 && v <= 1 {
		return v * 100
	}
	return v
}

func deriveSeverity(status domain.AnalysisStatus, raw string) domain.Severity {
	if status == domain.StatusHealthy {
		return domain.SeverityNone
	}
	if sev, ok := domain.ParseSeverity(raw); ok && sev != domain.SeverityNone {
		return sev
	}
	return domain.SeverityMedium
}

func defaultLabel(status domain.AnalysisStatus) string {
	if status == domain.StatusHealthy {
		return domain.HealthyResultLabel
	}
	return "Disease Detected"
}

func defaultDescription(status domain.AnalysisStatus) string {
	if status == domain.StatusHealthy {
		return "No visible signs of disease were found on the leaf."
	}
	return "Signs of disease were found on the leaf."
}

func concat(lists ...[]string) []string {
	out := []string{}
	for _, list := range lists {
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
