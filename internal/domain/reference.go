package domain

import "strings"

// Disease is one entry of the static disease database.
type Disease struct {
	Name        string   `json:"name"`
	Crop        string   `json:"crop"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Symptoms    []string `json:"symptoms"`
	Treatments  []string `json:"treatments"`
	Prevention  []string `json:"prevention"`
}

// Tip is a single localized farming tip.
type Tip struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// TipSet groups the tips available for one language.
type TipSet struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Tips     []Tip  `json:"tips"`
}

// FindDisease looks a disease up by case-insensitive name.
func FindDisease(diseases []Disease, name string) (Disease, bool) {
	for _, d := range diseases {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Disease{}, false
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
