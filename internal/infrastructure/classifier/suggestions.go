package classifier

import "fmt"

// Treatment guidance served with mock predictions, grouped the way the
// classification backend groups it in its suggestions object.
var (
	diseasedImmediate = []string{
		"Remove affected leaves immediately to prevent spread",
		"Improve air circulation around plants",
		"Avoid overhead watering - water at soil level",
	}
	diseasedTreatment = []string{
		"For fungal infections: Apply copper-based fungicide",
		"For bacterial issues: Use bactericide and improve drainage",
		"For viral diseases: Remove infected plants to prevent spread",
	}
	diseasedPrevention = []string{
		"Choose disease-resistant plant varieties",
		"Rotate crops annually to break disease cycles",
		"Maintain proper soil drainage",
	}
	healthyMaintenance = []string{
		"Continue current care routine",
		"Monitor regularly for early disease signs",
		"Maintain consistent watering schedule",
	}
	healthyPrevention = []string{
		"Inspect plants weekly for changes",
		"Maintain good garden hygiene",
		"Provide appropriate spacing between plants",
	}
	healthyNextSteps = []string{
		"Continue monitoring",
		"Maintain current care routine",
	}
)

// DiseasedUrgency is the follow-up window attached to diseased predictions.
const DiseasedUrgency = "Monitor closely and take action within 24-48 hours"

// Suggestions mirrors the backend's nested suggestion object.
type Suggestions struct {
	ImmediateActions []string `json:"immediate_actions,omitempty"`
	TreatmentOptions []string `json:"treatment_options,omitempty"`
	MaintenanceTips  []string `json:"maintenance_tips,omitempty"`
	PreventionTips   []string `json:"prevention_tips,omitempty"`
	NextSteps        []string `json:"next_steps,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	Urgency          string   `json:"urgency,omitempty"`
}

// SuggestionsFor returns the guidance for a "healthy" or "diseased" prediction.
func SuggestionsFor(prediction string) Suggestions {
	if prediction == "healthy" {
		return Suggestions{
			MaintenanceTips: clone(healthyMaintenance),
			PreventionTips:  clone(healthyPrevention),
			NextSteps:       clone(healthyNextSteps),
		}
	}
	return Suggestions{
		ImmediateActions: clone(diseasedImmediate),
		TreatmentOptions: clone(diseasedTreatment),
		PreventionTips:   clone(diseasedPrevention),
		Severity:         "medium",
		Urgency:          DiseasedUrgency,
	}
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}

// ExplanationFor returns the plain-language summary served alongside a
// prediction when no language model is available.
func ExplanationFor(prediction string, confidence float64) string {
	switch prediction {
	case "healthy":
		return fmt.Sprintf("The analysis shows your plant leaf appears healthy with %.1f%% confidence. "+
			"Continue your current care routine and monitor regularly for any changes.", confidence)
	case "diseased":
		return fmt.Sprintf("The analysis indicates potential disease signs with %.1f%% confidence. "+
			"Consider the recommended treatment options and monitor closely. "+
			"If symptoms persist or worsen, consult with a local agricultural extension office.", confidence)
	default:
		return "The analysis could not determine a clear diagnosis. Please try again with a clearer image."
	}
}
