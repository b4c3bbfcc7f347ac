package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/multillm/survey-stack/common/models"
)

// FileStore keeps every submission in one JSON array on disk.
//
// Append is a read-modify-write of the whole document. Appends through one
// FileStore are serialized, and ids are bumped past the last one so they stay
// unique and ascending. Several processes sharing the file can still lose
// writes; use a relational backend for multi-writer deployments.
type FileStore struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewFileStore returns a FileStore backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Name() string { return "file" }

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Close() error { return nil }

// Ensure initializes the backing file to an empty collection if it does not
// exist. Safe to call repeatedly.
func (s *FileStore) Ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrStorageUnavailable, s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data directory: %v", ErrStorageUnavailable, err)
	}
	if err := s.write([]models.Submission{}); err != nil {
		return fmt.Errorf("%w: initialize %s: %v", ErrStorageUnavailable, s.path, err)
	}
	return nil
}

func (s *FileStore) Append(ctx context.Context, payload models.Payload) (*models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Ensure(); err != nil {
		return nil, err
	}
	submissions, err := s.read()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := models.Submission{
		ID:         s.nextID(now, submissions),
		ReceivedAt: now.Truncate(time.Millisecond),
		Payload:    payload.Clone(),
	}
	submissions = append(submissions, item)

	if err := s.write(submissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	s.lastID = item.ID

	return &item, nil
}

func (s *FileStore) List(ctx context.Context) ([]models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.read()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(submissions, func(a, b models.Submission) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return submissions, nil
}

// nextID derives the id from the acceptance time in milliseconds, bumped past
// the highest id already stored.
func (s *FileStore) nextID(now time.Time, existing []models.Submission) int64 {
	id := now.UnixMilli()
	last := s.lastID
	for _, sub := range existing {
		if sub.ID > last {
			last = sub.ID
		}
	}
	if id <= last {
		id = last + 1
	}
	return id
}

// read loads the collection. A missing file is an empty collection.
func (s *FileStore) read() ([]models.Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, s.path, err)
	}

	submissions := []models.Submission{}
	if len(data) == 0 {
		return submissions, nil
	}
	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, s.path, err)
	}
	return submissions, nil
}

// write replaces the file via a temp file and rename so readers never see a
// partially written document.
func (s *FileStore) write(submissions []models.Submission) error {
	data, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submissions: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".submissions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
