package classifier

import (
	"math/rand/v2"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/ports"
)

// Simulation contract: the healthy share and the confidence bands are relied on
// by callers and tests.
const (
	HealthyProbability   = 0.7
	HealthyConfidenceMin = 85.0
	HealthyConfidenceMax = 95.0
	DiseaseConfidenceMin = 70.0
	DiseaseConfidenceMax = 90.0
)

var unidentifiedDisease = domain.Disease{
	Name:        "Unidentified Leaf Disease",
	Description: "Leaf damage consistent with a fungal or bacterial infection.",
	Severity:    domain.SeverityMedium,
	Symptoms:    []string{"Discoloured or spotted leaves"},
	Treatments:  clone(diseasedImmediate),
	Prevention:  clone(diseasedPrevention),
}

// Simulator classifies leaves locally without looking at the image.
type Simulator struct {
	diseases []domain.Disease
	random   ports.RandomSource
}

// NewSimulator draws diseased verdicts uniformly from diseases. A nil random uses
// the process-wide generator.
func NewSimulator(diseases []domain.Disease, random ports.RandomSource) *Simulator {
	if len(diseases) == 0 {
		diseases = []domain.Disease{unidentifiedDisease}
	}
	if random == nil {
		random = globalRandom{}
	}
	return &Simulator{diseases: diseases, random: random}
}

// Simulate implements ports.Simulator.
func (s *Simulator) Simulate(domain.LeafImage) ports.SimulatedResult {
	if s.random.Float64() < HealthyProbability {
		return ports.SimulatedResult{
			Status:          string(domain.StatusHealthy),
			Confidence:      between(s.random.Float64(), HealthyConfidenceMin, HealthyConfidenceMax),
			Result:          domain.HealthyResultLabel,
			Description:     "Your crop appears healthy with no visible signs of disease.",
			Recommendations: clone(healthyMaintenance),
			Prevention:      clone(healthyPrevention),
			Severity:        string(domain.SeverityNone),
		}
	}

	idx := int(s.random.Float64() * float64(len(s.diseases)))
	if idx >= len(s.diseases) {
		idx = len(s.diseases) - 1
	}
	disease := s.diseases[idx]
	return ports.SimulatedResult{
		Status:          string(domain.StatusDiseaseDetected),
		Confidence:      between(s.random.Float64(), DiseaseConfidenceMin, DiseaseConfidenceMax),
		Result:          disease.Name,
		Description:     disease.Description,
		Recommendations: clone(disease.Treatments),
		Prevention:      clone(disease.Prevention),
		Symptoms:        clone(disease.Symptoms),
		Severity:        string(disease.Severity),
	}
}

func between(u, lo, hi float64) float64 {
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	return lo + u*(hi-lo)
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

var _ ports.Simulator = (*Simulator)(nil)

// GlobalRandom returns the process-wide uniform source.
func GlobalRandom() ports.RandomSource { return globalRandom{} }
