// Package preferences manages the per-installation user settings singleton.
package preferences

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/persistence"
)

var (
	// ErrUnsupportedLanguage is returned for a language with no tip set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrEmptyLocation is returned when a blank location is set.
	ErrEmptyLocation = errors.New("location must not be empty")
	// ErrPersistFailed reports that preferences could not be written.
	ErrPersistFailed = errors.New("preferences could not be saved")
)

// Service reads and updates UserPreferences.
type Service struct {
	adapter   *persistence.Adapter
	languages func() []string
	mu        sync.Mutex
}

// NewService returns a preferences service. languages lists the supported language
// codes; nil disables validation.
func NewService(adapter *persistence.Adapter, languages func() []string) *Service {
	return &Service{adapter: adapter, languages: languages}
}

// Get returns the stored preferences, persisting defaults on first use.
func (s *Service) Get() domain.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SetLanguage switches the tip language.
func (s *Service) SetLanguage(code string) (domain.UserPreferences, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !s.supported(code) {
		return domain.UserPreferences{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return s.update(func(p *domain.UserPreferences) { p.Language = code })
}

// SetLocation sets the weather location.
func (s *Service) SetLocation(location string) (domain.UserPreferences, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.UserPreferences{}, ErrEmptyLocation
	}
	return s.update(func(p *domain.UserPreferences) { p.Location = location })
}

// SetNotifications toggles notifications.
func (s *Service) SetNotifications(enabled bool) (domain.UserPreferences, error) {
	return s.update(func(p *domain.UserPreferences) { p.NotificationsEnabled = enabled })
}

// Reset restores the defaults.
func (s *Service) Reset() (domain.UserPreferences, error) {
	return s.update(func(p *domain.UserPreferences) { *p = domain.DefaultPreferences() })
}

func (s *Service) update(mutate func(*domain.UserPreferences)) (domain.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load()
	mutate(&prefs)
	if !s.adapter.Save(domain.NamespacePreferences, prefs) {
		return prefs, ErrPersistFailed
	}
	return prefs, nil
}

func (s *Service) load() domain.UserPreferences {
	var prefs domain.UserPreferences
	if s.adapter.Load(domain.NamespacePreferences, &prefs) {
		return prefs
	}
	prefs = domain.DefaultPreferences()
	s.adapter.Save(domain.NamespacePreferences, prefs)
	return prefs
}

func (s *Service) supported(code string) bool {
	if s.languages == nil {
		return code != ""
	}
	for _, lang := range s.languages() {
		if lang == code {
			return true
		}
	}
	return false
}
