// Package tips serves localized farming tips with an English fallback.
package tips

import (
	"errors"
	"strings"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/cache"
	"github.com/juaai/jua/internal/ports"
)

// ErrNoTips is returned when neither the requested language nor English has tips.
var ErrNoTips = errors.New("no tips available")

// Result is a tip lookup answer.
type Result struct {
	Set       domain.TipSet
	Requested string
	Fallback  bool
	Cached    bool
}

// Service resolves tip sets through the cache.
type Service struct {
	source ports.ReferenceSource
	cache  *cache.Cache[domain.TipSet]
	ttl    int
}

// NewService returns a tips service caching sets for ttlMinutes.
func NewService(source ports.ReferenceSource, c *cache.Cache[domain.TipSet], ttlMinutes int) *Service {
	if ttlMinutes <= 0 {
		ttlMinutes = domain.DefaultTipsTTLMinutes
	}
	return &Service{source: source, cache: c, ttl: ttlMinutes}
}

// ForLanguage returns the tips for language, or the English tips when the
// language has none.
func (s *Service) ForLanguage(language string) (Result, error) {
	requested := strings.ToLower(strings.TrimSpace(language))
	if requested == "" {
		requested = domain.DefaultLanguage
	}

	if set, ok := s.cache.Get(requested); ok {
		return Result{Set: set, Requested: requested, Fallback: set.Language != requested, Cached: true}, nil
	}

	set, ok := s.source.TipSet(requested)
	if !ok {
		set, ok = s.source.TipSet(domain.DefaultLanguage)
	}
	if !ok {
		return Result{Requested: requested}, ErrNoTips
	}
	s.cache.Set(requested, set, s.ttl)
	return Result{Set: set, Requested: requested, Fallback: set.Language != requested}, nil
}

// Languages lists the languages tips exist for.
func (s *Service) Languages() []string {
	return s.source.Languages()
}
