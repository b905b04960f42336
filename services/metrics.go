package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_predictions_total",
		Help: "Total number of observations classified.",
	})
	recordsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_records_stored_total",
		Help: "Total number of labeled records persisted.",
	})
	recordsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_records_generated_total",
		Help: "Total number of synthetic records generated.",
	})
	storageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_storage_failures_total",
		Help: "Total number of failed storage operations.",
	})
	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_validation_failures_total",
		Help: "Total number of rejected malformed inputs.",
	})
	randomClassifierActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maintenance_random_classifier_active",
		Help: "1 when the random fallback classifier is serving predictions.",
	})
)
