package main

import (
	"context"
	"fmt"
	"log"

	"maintenance-prediction-api/config"
	"maintenance-prediction-api/handlers"
	"maintenance-prediction-api/middleware"
	"maintenance-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Backend selection is fixed here for the process lifetime.
	store, err := services.SelectStore(context.Background(), cfg.Database, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	classifier := services.NewClassifier(cfg.Classifier)

	cache := services.NewCacheService(cfg.Redis)
	defer cache.Close()

	ingest := services.NewIngestionService(store, classifier, cache)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "UP",
			"message":    "Predictive Maintenance API is running",
			"storage":    ingest.Backend(),
			"classifier": ingest.ClassifierMode(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predictHandler := handlers.NewPredictHandler(ingest, cache)
	dataHandler := handlers.NewDataHandler(ingest, cache)

	router.POST("/predict", predictHandler.Predict)
	router.POST("/generate_data", dataHandler.GenerateData)
	router.GET("/data", dataHandler.GetData)
	router.DELETE("/clear_data", dataHandler.ClearData)
	router.GET("/ws/live", handlers.LiveWebSocket(cache))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s (storage=%s classifier=%s)", addr, ingest.Backend(), ingest.ClassifierMode())
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
