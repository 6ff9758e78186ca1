// Package reference loads the static disease database and localized tips shipped
// with the binary.
package reference

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/juaai/jua/assets"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/schema"
	"github.com/juaai/jua/internal/ports"
)

// Catalog is a read-only view over reference data.
type Catalog struct {
	diseases []domain.Disease
	tipSets  map[string]domain.TipSet
}

// LoadEmbedded parses the reference data compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return Load(assets.DiseasesJSON, assets.TipsJSON)
}

// Load validates and parses raw disease and tip documents.
func Load(diseasesJSON, tipsJSON []byte) (*Catalog, error) {
	diseaseSchema, err := schema.Compile("diseases", assets.DiseasesSchema)
	if err != nil {
		return nil, err
	}
	if err := diseaseSchema.Validate(diseasesJSON); err != nil {
		return nil, fmt.Errorf("disease database: %w", err)
	}
	tipSchema, err := schema.Compile("tips", assets.TipsSchema)
	if err != nil {
		return nil, err
	}
	if err := tipSchema.Validate(tipsJSON); err != nil {
		return nil, fmt.Errorf("tips: %w", err)
	}

	var diseases []domain.Disease
	if err := json.Unmarshal(diseasesJSON, &diseases); err != nil {
		return nil, fmt.Errorf("decode disease database: %w", err)
	}
	var sets []domain.TipSet
	if err := json.Unmarshal(tipsJSON, &sets); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}

	catalog := &Catalog{
		diseases: diseases,
		tipSets:  make(map[string]domain.TipSet, len(sets)),
	}
	for _, set := range sets {
		catalog.tipSets[set.Language] = set
	}
	return catalog, nil
}

// Diseases returns the disease database in file order.
func (c *Catalog) Diseases() []domain.Disease {
	out := make([]domain.Disease, len(c.diseases))
	copy(out, c.diseases)
	return out
}

// TipSet returns the tips for language.
func (c *Catalog) TipSet(language string) (domain.TipSet, bool) {
	set, ok := c.tipSets[language]
	return set, ok
}

// Languages lists the available tip languages, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.tipSets))
	for lang := range c.tipSets {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

var _ ports.ReferenceSource = (*Catalog)(nil)
