// Package storage records training runs and their per-epoch losses so
// long trainings can be inspected after the fact.
//
// Two implementations are provided: an in-memory store for tests and
// short-lived programs, and a SQLite-backed store for durable history.
package storage

import (
	"context"
	"time"
)

// Run describes one training run: the network shape being trained and
// the hyperparameters in effect.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	InputSize   int       `json:"input_size"`
	LayerSizes  []int     `json:"layer_sizes"`
	Activations []string  `json:"activations"`
	LearnRate   float64   `json:"learn_rate"`
	BatchSize   int       `json:"batch_size"`
	Epochs      int       `json:"epochs"`
}

// EpochRecord is the loss measured after one epoch of a run.
type EpochRecord struct {
	RunID      string    `json:"run_id"`
	Epoch      int       `json:"epoch"`
	Loss       float64   `json:"loss"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store persists training runs and epoch records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	RecordEpoch(ctx context.Context, record EpochRecord) error
	GetEpochRecords(ctx context.Context, runID string) ([]EpochRecord, error)
	Close() error
}
