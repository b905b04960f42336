package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maintenance-prediction-api/config"
	"maintenance-prediction-api/models"
	"maintenance-prediction-api/services"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_collector_messages_received_total",
		Help: "Total number of MQTT telemetry messages received by collector.",
	})
	msgsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_collector_messages_stored_total",
		Help: "Total number of telemetry messages classified and stored.",
	})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_collector_messages_failed_total",
		Help: "Total number of telemetry messages rejected or failed to store.",
	})
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	store, err := services.SelectStore(ctx, cfg.Database, cfg.Storage)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	classifier := services.NewClassifier(cfg.Classifier)

	cache := services.NewCacheService(cfg.Redis)
	defer cache.Close()

	ingest := services.NewIngestionService(store, classifier, cache)

	go serveHTTP(cfg.MQTT.MetricsAddr)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.URL)
	opts.SetClientID("maintenance-collector-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		processMessage(ctx, ingest, message.Payload())
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.MQTT.Topic, 0, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("collector subscribed to topic=%s", cfg.MQTT.Topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		log.Fatalf("mqtt connection failed: %v", token.Error())
	}

	log.Printf("collector running, mqtt=%s storage=%s classifier=%s metrics=%s",
		cfg.MQTT.URL, ingest.Backend(), ingest.ClassifierMode(), cfg.MQTT.MetricsAddr)

	<-ctx.Done()
	log.Printf("collector shutting down")
	client.Disconnect(250)
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}

// processMessage runs one telemetry payload through the ingestion pipeline.
// Malformed payloads are counted and dropped; they never stop the collector.
func processMessage(ctx context.Context, ingest *services.IngestionService, payloadRaw []byte) {
	msgsReceived.Inc()

	var in models.MachineInput
	if err := json.Unmarshal(payloadRaw, &in); err != nil {
		msgsFailed.Inc()
		log.Printf("invalid payload: %v", err)
		return
	}

	if _, err := ingest.IngestSingle(ctx, in); err != nil {
		msgsFailed.Inc()
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			log.Printf("payload rejected: %v", vErr)
		} else {
			log.Printf("ingest failed: %v", err)
		}
		return
	}

	msgsStored.Inc()
}
