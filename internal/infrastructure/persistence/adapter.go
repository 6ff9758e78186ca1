// Package persistence is the single point of contact with durable storage. It
// serializes values to JSON and contains every storage failure, so callers only
// ever see a boolean outcome.
package persistence

import (
	"encoding/json"

	"github.com/juaai/jua/internal/ports"
)

// Adapter wraps a ports.KeyValueStore with JSON (de)serialization.
type Adapter struct {
	store  ports.KeyValueStore
	logger ports.Logger
}

// NewAdapter returns an adapter over store. logger may be nil.
func NewAdapter(store ports.KeyValueStore, logger ports.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Save serializes value and stores it under namespace.
func (a *Adapter) Save(namespace string, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		a.warn("serialize failed", namespace, err)
		return false
	}
	if err := a.store.Set(namespace, data); err != nil {
		a.warn("storage write failed", namespace, err)
		return false
	}
	return true
}

// Load parses the value stored under namespace into out. It returns false when the
// namespace is absent, unreadable or does not decode into out.
func (a *Adapter) Load(namespace string, out interface{}) bool {
	data, ok, err := a.store.Get(namespace)
	if err != nil {
		a.warn("storage read failed", namespace, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		a.warn("deserialize failed", namespace, err)
		return false
	}
	return true
}

// Remove deletes namespace. Removing an absent namespace succeeds.
func (a *Adapter) Remove(namespace string) bool {
	if err := a.store.Remove(namespace); err != nil {
		a.warn("storage remove failed", namespace, err)
		return false
	}
	return true
}

// Namespaces lists stored namespaces with the given prefix; failures yield nil.
func (a *Adapter) Namespaces(prefix string) []string {
	names, err := a.store.Namespaces(prefix)
	if err != nil {
		a.warn("storage list failed", prefix, err)
		return nil
	}
	return names
}

func (a *Adapter) warn(msg, namespace string, err error) {
	if a.logger == nil {
		return
	}
	a.logger.Warn(msg, map[string]interface{}{
		"namespace": namespace,
		"error":     err.Error(),
	})
}
