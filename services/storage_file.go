package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"maintenance-prediction-api/models"
)

// FileStore is the flat-file fallback variant: a single JSON array document
// rewritten wholesale on every mutation. Writes go through a temp file and a
// rename, so a crash leaves either the old document or the new one, never a
// torn file. A process-local mutex serializes writers; cross-process writers
// are not supported.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens the store at path, initializing an empty document when
// none exists.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	return s, nil
}

func (s *FileStore) readAll() ([]models.MachineRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Err: err}
	}
	var recs []models.MachineRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, &StorageError{Op: "read", Err: fmt.Errorf("corrupt data file %s: %w", s.path, err)}
	}
	return recs, nil
}

func (s *FileStore) writeAll(recs []models.MachineRecord) error {
	if recs == nil {
		recs = []models.MachineRecord{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".machine_data-*.json")
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StorageError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

func (s *FileStore) InsertOne(ctx context.Context, rec *models.MachineRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return err
	}
	return s.writeAll(append(recs, *rec))
}

func (s *FileStore) InsertMany(ctx context.Context, batch []models.MachineRecord) error {
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return err
	}
	return s.writeAll(append(recs, batch...))
}

// Find returns the last limit records by insertion order.
func (s *FileStore) Find(ctx context.Context, limit int) ([]models.MachineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	return recs, nil
}

func (s *FileStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return int64(len(recs)), nil
}

func (s *FileStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return 0, err
	}
	if err := s.writeAll(nil); err != nil {
		return 0, err
	}
	return int64(len(recs)), nil
}

func (s *FileStore) Name() string { return "file" }
