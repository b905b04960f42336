package services

import (
	"context"
	"math"
	"math/rand/v2"

	"maintenance-prediction-api/models"
)

// IngestionService owns the observation pipeline: validate, map to the
// storage shape, classify, attach the label, persist. It also serves the
// read and clear paths so the record store is touched only through the
// selected backend.
type IngestionService struct {
	store      Store
	classifier Classifier
	cache      *CacheService
}

func NewIngestionService(store Store, classifier Classifier, cache *CacheService) *IngestionService {
	return &IngestionService{store: store, classifier: classifier, cache: cache}
}

// IngestSingle runs one observation through the pipeline and returns the
// exact record that was persisted. Nothing is stored when validation or
// classification fails.
func (s *IngestionService) IngestSingle(ctx context.Context, in models.MachineInput) (*models.MachineRecord, error) {
	if field := in.MissingField(); field != "" {
		validationFailures.Inc()
		return nil, &ValidationError{Field: field, Reason: "is required"}
	}

	rec := in.ToRecord()
	label, err := s.classifier.Classify(rec)
	if err != nil {
		return nil, &ClassificationError{Err: err}
	}
	rec.Prediction = label
	predictionsTotal.Inc()

	if err := s.store.InsertOne(ctx, &rec); err != nil {
		storageFailures.Inc()
		return nil, err
	}
	recordsStored.Inc()

	if s.cache != nil {
		// Best effort: the live feed is advisory.
		_ = s.cache.Publish(ctx, LiveChannel, rec)
	}
	return &rec, nil
}

// GenerateSynthetic samples count observations uniformly within the expected
// field ranges, classifies each, and persists them as one batch. count 0 is
// legal and writes nothing.
func (s *IngestionService) GenerateSynthetic(ctx context.Context, count int) (int, error) {
	if count < 0 {
		validationFailures.Inc()
		return 0, &ValidationError{Field: "count", Reason: "must be non-negative"}
	}
	if count == 0 {
		return 0, nil
	}

	recs := make([]models.MachineRecord, 0, count)
	for i := 0; i < count; i++ {
		rec := sampleRecord()
		label, err := s.classifier.Classify(rec)
		if err != nil {
			return 0, &ClassificationError{Err: err}
		}
		rec.Prediction = label
		predictionsTotal.Inc()
		recs = append(recs, rec)
	}

	if err := s.store.InsertMany(ctx, recs); err != nil {
		storageFailures.Inc()
		return 0, err
	}
	recordsGenerated.Add(float64(count))
	return count, nil
}

// ListRecords returns up to limit records from the active backend. See the
// Store contract for the ordering asymmetry between backends.
func (s *IngestionService) ListRecords(ctx context.Context, limit int) ([]models.MachineRecord, error) {
	if limit <= 0 {
		validationFailures.Inc()
		return nil, &ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	return s.store.Find(ctx, limit)
}

// ClearAll deletes every record and reports how many were removed. Clearing
// an already-empty store returns 0.
func (s *IngestionService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		storageFailures.Inc()
		return 0, err
	}
	return n, nil
}

func (s *IngestionService) Backend() string        { return s.store.Name() }
func (s *IngestionService) ClassifierMode() string { return s.classifier.Mode() }

// sampleRecord draws one synthetic observation, with the same per-field
// rounding the telemetry feed produces: temperatures to 0.1 K, torque to
// 0.01 Nm, speed and wear to integral values.
func sampleRecord() models.MachineRecord {
	return models.MachineRecord{
		MachineType:         rand.IntN(3),
		AirTemperatureK:     round1(uniform(models.AirTempMinK, models.AirTempMaxK)),
		ProcessTemperatureK: round1(uniform(models.ProcTempMinK, models.ProcTempMaxK)),
		RotationalSpeedRPM:  math.Round(uniform(models.SpeedMinRPM, models.SpeedMaxRPM)),
		TorqueNm:            round2(uniform(models.TorqueMinNm, models.TorqueMaxNm)),
		ToolWearMin:         math.Round(uniform(models.WearMin, models.WearMax)),
	}
}

func uniform(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
