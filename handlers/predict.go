package handlers

import (
	"errors"
	"net/http"

	"maintenance-prediction-api/models"
	"maintenance-prediction-api/services"

	"github.com/gin-gonic/gin"
)

type PredictHandler struct {
	ingest *services.IngestionService
	cache  recordCache
}

func NewPredictHandler(ingest *services.IngestionService, cache recordCache) *PredictHandler {
	return &PredictHandler{ingest: ingest, cache: cache}
}

// Predict accepts one observation, classifies it, persists the labeled
// record, and returns the label.
func (h *PredictHandler) Predict(c *gin.Context) {
	var in models.MachineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.ingest.IngestSingle(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	invalidateListing(c.Request.Context(), h.cache)

	c.JSON(http.StatusOK, gin.H{
		"prediction": rec.Prediction,
		"failure":    rec.Prediction == 1,
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}
	var cErr *services.ClassificationError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed"})
		return
	}
	var sErr *services.StorageError
	if errors.As(err, &sErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage operation failed"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
