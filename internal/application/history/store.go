// Package history keeps the newest-first list of analysis records and derives
// aggregate statistics from it.
package history

import (
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/ports"
)

// ErrPersistFailed reports that the updated history could not be written back.
var ErrPersistFailed = errors.New("history could not be saved")

// Store persists the whole history under one namespace. Every mutation is a
// read-modify-write of the full collection, serialized by mu.
type Store struct {
	adapter    *persistence.Adapter
	maxEntries int
	mu         sync.Mutex
}

// NewStore returns a history store capped at maxEntries records.
func NewStore(adapter *persistence.Adapter, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = domain.DefaultHistoryMaxEntries
	}
	return &Store{adapter: adapter, maxEntries: maxEntries}
}

// Append inserts record at the head and evicts the oldest entries past the cap.
func (s *Store) Append(record domain.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	updated := make([]domain.AnalysisRecord, 0, len(records)+1)
	updated = append(updated, record)
	updated = append(updated, records...)
	if len(updated) > s.maxEntries {
		updated = updated[:s.maxEntries]
	}
	return s.save(updated)
}

// List returns up to limit records, newest first. A non-positive limit returns all.
func (s *Store) List(limit int) ([]domain.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get looks a record up by ID.
func (s *Store) Get(id string) (domain.AnalysisRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.load() {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return domain.AnalysisRecord{}, false, nil
}

// Remove deletes the record with id. Unknown IDs are a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.save(kept)
}

// Clear drops every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.adapter.Remove(domain.NamespaceHistory) {
		return ErrPersistFailed
	}
	return nil
}

// Statistics summarizes the stored records.
func (s *Store) Statistics() (domain.HistoryStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.ComputeStatistics(s.load()), nil
}

// ExportJSONL writes every record, newest first, one JSON document per line.
func (s *Store) ExportJSONL(w io.Writer) (int, error) {
	records, err := s.List(0)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// load reads the history; an absent or unreadable collection is empty.
func (s *Store) load() []domain.AnalysisRecord {
	var records []domain.AnalysisRecord
	if !s.adapter.Load(domain.NamespaceHistory, &records) {
		return []domain.AnalysisRecord{}
	}
	return records
}

func (s *Store) save(records []domain.AnalysisRecord) error {
	if !s.adapter.Save(domain.NamespaceHistory, records) {
		return ErrPersistFailed
	}
	return nil
}

var _ ports.HistoryRepository = (*Store)(nil)
