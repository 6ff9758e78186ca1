package server

import (
	"math"

	"github.com/juaai/jua/internal/infrastructure/classifier"
	"github.com/juaai/jua/internal/ports"
)

// Model metadata reported by the backend.
const (
	ModelVersion = "1.0.0"
	ModelType    = "Mock Prediction"
	MockNote     = "Using mock prediction - no model loaded"
)

// Confidence bands of the mock model, in percent.
const (
	HealthyConfidenceMin  = 75.0
	DiseasedConfidenceMin = 70.0
	ConfidenceSpread      = 20.0
)

// ClassNames are the labels the backend can predict.
var ClassNames = []string{"diseased", "healthy"}

// Prediction is a single mock model output.
type Prediction struct {
	Class      string
	Confidence float64 // percent, two decimals
}

// MockPredictor stands in for a trained model: 70% healthy, with confidence
// drawn from 75-95% for healthy leaves and 70-90% for diseased ones.
type MockPredictor struct {
	random ports.RandomSource
}

// NewMockPredictor returns a predictor drawing from random.
func NewMockPredictor(random ports.RandomSource) *MockPredictor {
	if random == nil {
		random = classifier.GlobalRandom()
	}
	return &MockPredictor{random: random}
}

// Predict ignores the image content.
func (p *MockPredictor) Predict([]byte) Prediction {
	if p.random.Float64() < classifier.HealthyProbability {
		return Prediction{Class: "healthy", Confidence: round2(HealthyConfidenceMin + p.random.Float64()*ConfidenceSpread)}
	}
	return Prediction{Class: "diseased", Confidence: round2(DiseasedConfidenceMin + p.random.Float64()*ConfidenceSpread)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
