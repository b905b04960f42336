package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"maintenance-prediction-api/models"
	"maintenance-prediction-api/services"

	"github.com/gin-gonic/gin"
)

// DefaultFetchLimit is large enough to mean "everything" at demo scale.
const DefaultFetchLimit = 10000

// Only the default-limit listing is cached, under this one key; explicit
// limits always hit the store. Every mutation deletes the key before its
// response is written, so a follow-up read cannot see deleted or missing
// records.
const (
	recordsCacheKey = "records:latest"
	recordsCacheTTL = 5 * time.Second
)

// recordCache is the subset of the cache service the record handlers use.
type recordCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// invalidateListing drops the cached listing after a mutation. Best effort:
// a cache failure is logged, never surfaced to the client.
func invalidateListing(ctx context.Context, cache recordCache) {
	if err := cache.Delete(ctx, recordsCacheKey); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}
}

type DataHandler struct {
	ingest *services.IngestionService
	cache  recordCache
}

func NewDataHandler(ingest *services.IngestionService, cache recordCache) *DataHandler {
	return &DataHandler{ingest: ingest, cache: cache}
}

type DataResponse struct {
	Data  []models.MachineRecord `json:"data"`
	Count int                    `json:"count"`
}

func (h *DataHandler) GetData(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultFetchLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter, must be a positive integer"})
		return
	}

	if limit == DefaultFetchLimit {
		var cached DataResponse
		if err := h.cache.Get(c.Request.Context(), recordsCacheKey, &cached); err == nil && cached.Data != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	recs, err := h.ingest.ListRecords(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if recs == nil {
		recs = []models.MachineRecord{}
	}

	resp := DataResponse{Data: recs, Count: len(recs)}
	if limit == DefaultFetchLimit {
		if err := h.cache.Set(c.Request.Context(), recordsCacheKey, resp, recordsCacheTTL); err != nil {
			log.Printf("cache set failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DataHandler) GenerateData(c *gin.Context) {
	countStr := c.DefaultQuery("count", "100")
	count, err := strconv.Atoi(countStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count parameter, must be an integer"})
		return
	}

	n, err := h.ingest.GenerateSynthetic(c.Request.Context(), count)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	invalidateListing(c.Request.Context(), h.cache)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Generated %d data points", n),
		"count":   n,
	})
}

func (h *DataHandler) ClearData(c *gin.Context) {
	deleted, err := h.ingest.ClearAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	invalidateListing(c.Request.Context(), h.cache)

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Deleted %d data points", deleted),
		"deleted_count": deleted,
	})
}
