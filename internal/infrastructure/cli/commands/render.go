package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/juaai/jua/internal/application/analysis"
	"github.com/juaai/jua/internal/domain"
)

// renderAnalysis prints an analysis outcome in a friendly, ASCII-only format.
func renderAnalysis(out io.Writer, outcome analysis.Outcome) {
	rec := outcome.Record
	fmt.Fprintln(out, "Leaf analysis complete")
	fmt.Fprintf(out, "ID: %s\n", rec.ID)
	if outcome.FellBack() {
		fmt.Fprintf(out, "Source: local simulation (remote %s)\n", outcome.FallbackReason)
	} else {
		fmt.Fprintln(out, "Source: remote classifier")
	}

	fmt.Fprintln(out)
	renderRecord(out, rec)

	if !outcome.Persisted {
		fmt.Fprintln(out, "\nWarning: result could not be saved to history.")
	}
}

func renderRecord(out io.Writer, rec domain.AnalysisRecord) {
	fmt.Fprintf(out, "Result: %s\n", rec.Result)
	fmt.Fprintf(out, "Status: %s\n", statusLabel(rec.Status))
	fmt.Fprintf(out, "Confidence: %.1f%%\n", rec.Confidence)
	if !rec.IsHealthy() {
		fmt.Fprintf(out, "Severity: %s\n", strings.ToUpper(string(rec.Severity)))
	}
	fmt.Fprintf(out, "Analyzed: %s\n", rec.Timestamp.Format(TimestampFormat))
	if rec.Description != "" {
		fmt.Fprintf(out, "\n%s\n", rec.Description)
	}
	renderList(out, "Symptoms", rec.Symptoms)
	renderList(out, "Recommendations", rec.Recommendations)
	renderList(out, "Prevention", rec.Prevention)
}

func renderList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, " - %s\n", item)
	}
}

func statusLabel(status domain.AnalysisStatus) string {
	if status == domain.StatusHealthy {
		return "healthy"
	}
	return "disease detected"
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
