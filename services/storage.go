package services

import (
	"context"
	"log"
	"time"

	"maintenance-prediction-api/config"
	"maintenance-prediction-api/models"
)

// Store is the contract both storage backends satisfy identically. The one
// acknowledged asymmetry sits in Find: the database variant returns up to
// limit rows in engine-chosen order (no sort is applied), while the file
// variant returns the LAST limit records by insertion order.
type Store interface {
	// InsertOne appends a single labeled record. A failure leaves either
	// zero or one new record, never a malformed one.
	InsertOne(ctx context.Context, rec *models.MachineRecord) error
	// InsertMany appends a batch. The first failure aborts with a single
	// aggregate error; there is no partial-success reporting.
	InsertMany(ctx context.Context, recs []models.MachineRecord) error
	Find(ctx context.Context, limit int) ([]models.MachineRecord, error)
	Count(ctx context.Context) (int64, error)
	// Clear deletes all records and returns the count deleted. Clearing an
	// empty store returns 0, not an error.
	Clear(ctx context.Context) (int64, error)
	Name() string
}

// SelectStore probes the database under a bounded timeout and fixes the
// backend for the process lifetime: database if reachable, flat file
// otherwise. There is no re-probing and no mid-process failover; restart the
// process to change backend.
func SelectStore(ctx context.Context, dbCfg config.DatabaseConfig, storeCfg config.StorageConfig) (Store, error) {
	probeCtx, cancel := context.WithTimeout(ctx, time.Duration(dbCfg.ProbeTimeoutSec)*time.Second)
	defer cancel()

	db, err := NewDBStore(probeCtx, dbCfg)
	if err == nil {
		log.Printf("storage backend: postgres (%s:%d/%s)", dbCfg.Host, dbCfg.Port, dbCfg.Name)
		return db, nil
	}
	log.Printf("postgres unreachable (%v), falling back to file storage: %s", err, storeCfg.DataFile)

	fs, err := NewFileStore(storeCfg.DataFile)
	if err != nil {
		return nil, err
	}
	log.Printf("storage backend: file (%s)", storeCfg.DataFile)
	return fs, nil
}
