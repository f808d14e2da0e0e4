package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore keeps run history in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	epochs      map[string][]EpochRecord
}

// NewMemoryStore creates an uninitialized in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init prepares the store. It may be called again to reset it.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.epochs = make(map[string][]EpochRecord)
	return nil
}

// SaveRun inserts or replaces a run.
func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

// GetRun fetches a run by ID.
func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return Run{}, false, err
	}
	run, ok := s.runs[id]
	if !ok {
		return Run{}, false, nil
	}
	return copyRun(run), true, nil
}

// ListRuns returns all runs ordered by start time.
func (s *MemoryStore) ListRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, copyRun(run))
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

// RecordEpoch appends one epoch record to its run's history.
func (s *MemoryStore) RecordEpoch(_ context.Context, record EpochRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	s.epochs[record.RunID] = append(s.epochs[record.RunID], record)
	return nil
}

// GetEpochRecords returns a run's epoch records in epoch order.
func (s *MemoryStore) GetEpochRecords(_ context.Context, runID string) ([]EpochRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	records := s.epochs[runID]
	copied := make([]EpochRecord, len(records))
	copy(copied, records)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Epoch < copied[j].Epoch })
	return copied, nil
}

// Close releases nothing for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// ready must be called with the mutex held.
func (s *MemoryStore) ready() error {
	if !s.initialized {
		return errors.New("memory store is not initialized")
	}
	return nil
}

func copyRun(run Run) Run {
	run.LayerSizes = append([]int(nil), run.LayerSizes...)
	run.Activations = append([]string(nil), run.Activations...)
	return run
}
