package domain

import "time"

// HistoryStatistics aggregates the stored analysis history.
type HistoryStatistics struct {
	Total             int        `json:"total"`
	Healthy           int        `json:"healthy"`
	Diseased          int        `json:"diseased"`
	AverageConfidence float64    `json:"average_confidence"`
	MostCommonDisease *string    `json:"most_common_disease,omitempty"`
	LastAnalysis      *time.Time `json:"last_analysis,omitempty"`
}

// ComputeStatistics derives aggregates from records ordered newest first.
// The most common disease is the most frequent non-healthy result label; ties go to
// the label encountered first in a single left-to-right scan.
func ComputeStatistics(records []AnalysisRecord) HistoryStatistics {
	stats := HistoryStatistics{Total: len(records)}
	if len(records) == 0 {
		return stats
	}

	var confidenceSum float64
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		confidenceSum += rec.Confidence
		if rec.IsHealthy() {
			stats.Healthy++
			continue
		}
		stats.Diseased++
		if _, seen := counts[rec.Result]; !seen {
			order = append(order, rec.Result)
		}
		counts[rec.Result]++
	}
	stats.AverageConfidence = confidenceSum / float64(len(records))

	topCount := 0
	var topLabel string
	for _, label := range order {
		if counts[label] > topCount {
			topLabel = label
			topCount = counts[label]
		}
	}
	if topCount > 0 {
		stats.MostCommonDisease = &topLabel
	}

	last := records[0].Timestamp
	for _, rec := range records[1:] {
		if rec.Timestamp.After(last) {
			last = rec.Timestamp
		}
	}
	stats.LastAnalysis = &last
	return stats
}
