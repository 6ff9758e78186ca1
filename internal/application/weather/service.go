// Package weather serves cached multi-day forecasts and the farming advisories
// derived from them.
package weather

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/cache"
	"github.com/juaai/jua/internal/ports"
)

// Advisory thresholds.
const (
	HeavyRainChancePct = 70.0
	HeatHighC          = 30.0
	WindyKPH           = 30.0
	HumidHumidityPct   = 80.0
)

// Service looks forecasts up in the cache and fills misses from a Provider.
type Service struct {
	provider Provider
	cache    *cache.Cache[domain.Forecast]
	clock    ports.Clock
	logger   ports.Logger
	ttl      int
	days     int
	group    singleflight.Group
}

// NewService returns a weather service caching forecasts for ttlMinutes.
func NewService(provider Provider, c *cache.Cache[domain.Forecast], clock ports.Clock, logger ports.Logger, ttlMinutes, days int) *Service {
	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultWeatherTTLMinutes
	}
	if days <= 0 {
		days = domain.DefaultForecastDays
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Service{provider: provider, cache: c, clock: clock, logger: logger, ttl: ttlMinutes, days: days}
}

// Forecast returns the forecast for location and whether it came from cache.
// Concurrent misses for the same location share one provider call.
func (s *Service) Forecast(ctx context.Context, location string) (domain.Forecast, bool, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = domain.DefaultLocation
	}
	now := s.clock.Now()
	key := strings.ToLower(location) + "@" + now.Format("2006-01-02")

	if cached, ok := s.cache.Get(key); ok {
		return cached, true, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		days, err := s.provider.Forecast(ctx, location, now, s.days)
		if err != nil {
			return nil, err
		}
		forecast := domain.Forecast{
			Location:    location,
			GeneratedAt: now,
			Days:        days,
			Advisories:  Advise(days),
		}
		if !s.cache.Set(key, forecast, s.ttl) {
			s.logger.Warn("forecast not cached", map[string]interface{}{"location": location})
		}
		return forecast, nil
	})
	if err != nil {
		return domain.Forecast{}, false, fmt.Errorf("forecast for %s: %w", location, err)
	}
	return v.(domain.Forecast), false, nil
}

// CachedLocations lists the locations with a live cached forecast for today.
func (s *Service) CachedLocations() []string {
	suffix := "@" + s.clock.Now().Format("2006-01-02")
	var out []string
	for _, key := range s.cache.Keys() {
		if location, ok := strings.CutSuffix(key, suffix); ok {
			out = append(out, location)
		}
	}
	return out
}

// Advise derives farming advisories from forecast days.
func Advise(days []domain.ForecastDay) []string {
	var out []string
	for _, d := range days {
		label := d.Date.Format("Mon 2 Jan")
		if d.RainChancePct >= HeavyRainChancePct {
			out = append(out, fmt.Sprintf("%s: %.0f%% chance of rain. Hold off on spraying and fertilizer application.", label, d.RainChancePct))
		}
		if d.HighC >= HeatHighC {
			out = append(out, fmt.Sprintf("%s: highs of %.1f°C. Irrigate early in the morning or late in the evening.", label, d.HighC))
		}
		if d.WindKPH >= WindyKPH {
			out = append(out, fmt.Sprintf("%s: winds up to %.0f km/h. Avoid spraying to prevent drift.", label, d.WindKPH))
		}
		if d.HumidityPct >= HumidHumidityPct {
			out = append(out, fmt.Sprintf("%s: humidity %.0f%%. Scout for blight and mildew.", label, d.HumidityPct))
		}
	}
	if len(out) == 0 {
		out = append(out, "Conditions look favourable for field work this week.")
	}
	return out
}
