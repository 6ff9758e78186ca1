package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/infrastructure/storage"
)

func newService() (*Service, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return NewService(persistence.NewAdapter(mem, nil), func() []string { return []string{"en", "sw"} }), mem
}

func TestGetCreatesDefaults(t *testing.T) {
	svc, mem := newService()
	assert.Equal(t, domain.DefaultPreferences(), svc.Get())

	_, ok, err := mem.Get(domain.NamespacePreferences)
	require.NoError(t, err)
	assert.True(t, ok, "defaults should be persisted on first use")
}

func TestSetters(t *testing.T) {
	svc, _ := newService()

	p, err := svc.SetLanguage(" SW ")
	require.NoError(t, err)
	assert.Equal(t, "sw", p.Language)

	p, err = svc.SetLocation("Kisumu")
	require.NoError(t, err)
	assert.Equal(t, "Kisumu", p.Location)

	p, err = svc.SetNotifications(false)
	require.NoError(t, err)
	assert.False(t, p.NotificationsEnabled)

	assert.Equal(t, domain.UserPreferences{Language: "sw", Location: "Kisumu"}, svc.Get())
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetLanguage("fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, domain.DefaultLanguage, svc.Get().Language)
}

func TestSetLocationRejectsBlank(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetLocation("   ")
	require.ErrorIs(t, err, ErrEmptyLocation)
}

func TestReset(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetLocation("Eldoret")
	require.NoError(t, err)

	p, err := svc.Reset()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), p)
	assert.Equal(t, domain.DefaultPreferences(), svc.Get())
}
