package services

import (
	"context"

	"maintenance-prediction-api/config"
	"maintenance-prediction-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DBStore is the durable storage variant, backed by Postgres. The database
// provides per-row atomicity, so concurrent requests are safe.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore connects, pings under ctx, and ensures the records table
// exists. A ctx with the probe deadline bounds the whole handshake.
func NewDBStore(ctx context.Context, cfg config.DatabaseConfig) (*DBStore, error) {
	// gorm's automatic ping runs with a background context; disabling it
	// keeps the PingContext below the only connection attempt, so the
	// probe deadline bounds the handshake even against a stalled server.
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.MachineRecord{}); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DBStore{db: db}, nil
}

func (s *DBStore) InsertOne(ctx context.Context, rec *models.MachineRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}

// InsertMany writes row-at-a-time, the database variant's insertion
// strategy: each row is atomic on its own, and the first failure aborts.
func (s *DBStore) InsertMany(ctx context.Context, recs []models.MachineRecord) error {
	for i := range recs {
		if err := s.db.WithContext(ctx).Create(&recs[i]).Error; err != nil {
			return &StorageError{Op: "bulk insert", Err: err}
		}
	}
	return nil
}

// Find returns up to limit rows with no ORDER BY; the engine chooses the
// order, which is not guaranteed to be insertion order.
func (s *DBStore) Find(ctx context.Context, limit int) ([]models.MachineRecord, error) {
	var rows []models.MachineRecord
	if err := s.db.WithContext(ctx).Limit(limit).Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}
	return rows, nil
}

func (s *DBStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.MachineRecord{}).Count(&n).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *DBStore) Clear(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.MachineRecord{})
	if res.Error != nil {
		return 0, &StorageError{Op: "clear", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func (s *DBStore) Name() string { return "postgres" }
