// Copyright 2025 The Neuralib Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package storage records training runs and their per-epoch losses,
// either in memory or in a SQLite database file.
package storage

import (
	"github.com/Jacoblightning/neuralib/internal/storage"
)

// Store persists training runs and epoch records.
type Store = storage.Store

// Run describes one training run.
type Run = storage.Run

// EpochRecord is the loss measured after one epoch of a run.
type EpochRecord = storage.EpochRecord

// MemoryStore keeps run history in process memory.
type MemoryStore = storage.MemoryStore

// SQLiteStore persists run history in a SQLite database file.
type SQLiteStore = storage.SQLiteStore

// NewMemoryStore creates an uninitialized in-memory store.
func NewMemoryStore() *MemoryStore {
	return storage.NewMemoryStore()
}

// NewSQLiteStore creates a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return storage.NewSQLiteStore(path)
}
