// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package store provides persistence for contact submissions and the
// session database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/primemeridian/site/internal/model"
	"github.com/primemeridian/site/internal/sanitize"
)

// ErrCorrupt is returned when the submissions file exists but cannot be
// parsed as a JSON array of submissions.
var ErrCorrupt = errors.New("submissions file is corrupt")

// SubmissionStore is the persistence interface for contact submissions.
// The backing medium (flat file today) can change without affecting callers.
type SubmissionStore interface {
	// Append sanitizes, assigns an identifier and timestamp, and persists
	// the submission. The stored record is returned.
	Append(ctx context.Context, sub model.Submission) (model.Submission, error)

	// ListAll returns every stored submission in insertion order.
	// A missing store is an empty collection, not an error.
	ListAll(ctx context.Context) ([]model.Submission, error)
}

// FileStore persists submissions as one pretty-printed JSON array file.
// Every Append is a read-modify-write of the whole file, serialized by a
// mutex so concurrent submissions cannot drop each other's records.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	lastID int64
	now    func() time.Time
}

// NewFileStore creates a FileStore writing to the given path.
// The parent directory is created if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Append implements SubmissionStore.
func (fs *FileStore) Append(ctx context.Context, sub model.Submission) (model.Submission, error) {
	if err := ctx.Err(); err != nil {
		return model.Submission{}, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	subs, err := fs.readLocked()
	if err != nil {
		return model.Submission{}, err
	}

	sub.FirstName = sanitize.Strip(sub.FirstName)
	sub.LastName = sanitize.Strip(sub.LastName)
	sub.Email = sanitize.Strip(sub.Email)
	sub.Phone = sanitize.Strip(sub.Phone)
	sub.Company = sanitize.Strip(sub.Company)
	sub.Inquiry = sanitize.Strip(sub.Inquiry)
	sub.Message = sanitize.Strip(sub.Message)

	now := fs.now().UTC()
	sub.ID = now.UnixMilli()
	if sub.ID <= fs.lastID {
		sub.ID = fs.lastID + 1
	}
	fs.lastID = sub.ID
	sub.Timestamp = now

	subs = append(subs, sub)

	if err := fs.writeLocked(subs); err != nil {
		return model.Submission{}, err
	}

	return sub, nil
}

// ListAll implements SubmissionStore.
func (fs *FileStore) ListAll(ctx context.Context) ([]model.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.readLocked()
}

// readLocked reads and parses the submissions file. Callers must hold the
// mutex (read or write).
func (fs *FileStore) readLocked() ([]model.Submission, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Submission{}, nil
		}
		return nil, fmt.Errorf("reading submissions file: %w", err)
	}

	var subs []model.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return subs, nil
}

// writeLocked rewrites the whole collection atomically via a temp file and
// rename, so a crash mid-write never leaves a truncated store behind.
func (fs *FileStore) writeLocked(subs []model.Submission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling submissions: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".submissions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing submissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing submissions file: %w", err)
	}
	return nil
}
