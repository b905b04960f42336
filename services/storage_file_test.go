package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"maintenance-prediction-api/models"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "machine_data.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return s
}

func fileRecord(wear float64) models.MachineRecord {
	return models.MachineRecord{
		MachineType:         1,
		AirTemperatureK:     298.0,
		ProcessTemperatureK: 308.0,
		RotationalSpeedRPM:  1500,
		TorqueNm:            40.0,
		ToolWearMin:         wear,
		Prediction:          0,
	}
}

func TestNewFileStoreInitializesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine_data.json")
	if _, err := NewFileStore(path); err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("data file not created: %v", err)
	}
	var recs []models.MachineRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatalf("initial document not a JSON array: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("initial document has %d records, want 0", len(recs))
	}
}

func TestFileStoreInsertAndFind(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	rec := fileRecord(100)
	if err := s.InsertOne(ctx, &rec); err != nil {
		t.Fatalf("InsertOne() error: %v", err)
	}

	got, err := s.Find(ctx, 10)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Find() returned %d records, want 1", len(got))
	}
	if got[0] != rec {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got[0], rec)
	}
}

func TestFileStoreFindReturnsTail(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	var batch []models.MachineRecord
	for i := 0; i < 5; i++ {
		batch = append(batch, fileRecord(float64(i)))
	}
	if err := s.InsertMany(ctx, batch); err != nil {
		t.Fatalf("InsertMany() error: %v", err)
	}

	got, err := s.Find(ctx, 2)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Find(2) returned %d records", len(got))
	}
	// The file variant serves the LAST limit records by insertion order.
	if got[0].ToolWearMin != 3 || got[1].ToolWearMin != 4 {
		t.Errorf("Find(2) = wear %v, %v; want 3, 4", got[0].ToolWearMin, got[1].ToolWearMin)
	}
}

func TestFileStoreInsertManyEmptyBatch(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.InsertMany(ctx, nil); err != nil {
		t.Fatalf("InsertMany(nil) error: %v", err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.InsertMany(ctx, []models.MachineRecord{fileRecord(1), fileRecord(2)}); err != nil {
		t.Fatalf("InsertMany() error: %v", err)
	}

	first, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if first != 2 {
		t.Errorf("first Clear() = %d, want 2", first)
	}

	second, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}
	if second != 0 {
		t.Errorf("second Clear() = %d, want 0", second)
	}
}

func TestFileStoreClearEmptyStore(t *testing.T) {
	s := newTestFileStore(t)

	n, err := s.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n != 0 {
		t.Errorf("Clear() on empty store = %d, want 0", n)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine_data.json")
	ctx := context.Background()

	s1, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	rec := fileRecord(42)
	if err := s1.InsertOne(ctx, &rec); err != nil {
		t.Fatalf("InsertOne() error: %v", err)
	}

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	got, err := s2.Find(ctx, 10)
	if err != nil {
		t.Fatalf("Find() after reopen error: %v", err)
	}
	if len(got) != 1 || got[0].ToolWearMin != 42 {
		t.Errorf("reopened store returned %+v", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	_, err = s.Find(context.Background(), 10)
	if err == nil {
		t.Fatal("expected StorageError for corrupt file")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("error type = %T, want *StorageError", err)
	}
}

func TestFileStoreConcurrentInserts(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	const writers = 8
	const perWriter = 10
	done := make(chan error, writers)
	for w := 0; w < writers; w++ {
		go func() {
			for i := 0; i < perWriter; i++ {
				rec := fileRecord(float64(i))
				if err := s.InsertOne(ctx, &rec); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for w := 0; w < writers; w++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent insert error: %v", err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != writers*perWriter {
		t.Errorf("Count() = %d, want %d (lost writes)", n, writers*perWriter)
	}
}
