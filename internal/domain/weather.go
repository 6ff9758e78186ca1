package domain

import "time"

// ForecastDay is a single day of a mock weather forecast.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	Condition     string    `json:"condition"`
	HighC         float64   `json:"high_c"`
	LowC          float64   `json:"low_c"`
	HumidityPct   float64   `json:"humidity_pct"`
	RainChancePct float64   `json:"rain_chance_pct"`
	WindKPH       float64   `json:"wind_kph"`
}

// Forecast is the multi-day outlook for a location.
type Forecast struct {
	Location    string        `json:"location"`
	GeneratedAt time.Time     `json:"generated_at"`
	Days        []ForecastDay `json:"days"`
	Advisories  []string      `json:"advisories"`
}
