package weather

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/juaai/jua/internal/domain"
)

// Provider produces a forecast for a location starting on a given day.
type Provider interface {
	Forecast(ctx context.Context, location string, start time.Time, days int) ([]domain.ForecastDay, error)
}

var conditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Light Rain", "Heavy Rain", "Thunderstorms"}

// MockProvider generates plausible East African forecasts. The same location and
// date always yield the same day.
type MockProvider struct{}

// Forecast implements Provider.
func (MockProvider) Forecast(ctx context.Context, location string, start time.Time, days int) ([]domain.ForecastDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	first := truncateDay(start)
	out := make([]domain.ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, mockDay(location, first.AddDate(0, 0, i)))
	}
	return out, nil
}

func mockDay(location string, date time.Time) domain.ForecastDay {
	r := rand.New(rand.NewPCG(seed(location, date), 0x6a7561))

	idx := r.IntN(len(conditions))
	rainy := idx >= 3
	high := 22 + r.Float64()*12
	if rainy {
		high -= 3
	}
	low := high - (7 + r.Float64()*5)
	humidity := 45 + r.Float64()*30
	rain := r.Float64() * 30
	if rainy {
		humidity += 15
		rain = 55 + r.Float64()*45
	}
	wind := 5 + r.Float64()*30

	return domain.ForecastDay{
		Date:          date,
		Condition:     conditions[idx],
		HighC:         round1(high),
		LowC:          round1(low),
		HumidityPct:   math.Round(math.Min(humidity, 100)),
		RainChancePct: math.Round(math.Min(rain, 100)),
		WindKPH:       round1(wind),
	}
}

func seed(location string, date time.Time) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	h.Write([]byte(date.Format("2006-01-02")))
	return h.Sum64()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
