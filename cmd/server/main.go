package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hostlens/revpar-advisor/internal/api"
	"github.com/hostlens/revpar-advisor/internal/benchmark"
	"github.com/hostlens/revpar-advisor/internal/config"
	"github.com/hostlens/revpar-advisor/internal/diagnosis"
	"github.com/hostlens/revpar-advisor/internal/insights"
	"github.com/hostlens/revpar-advisor/internal/listing"
	"github.com/hostlens/revpar-advisor/internal/predictor"
	"github.com/hostlens/revpar-advisor/internal/storage"
)

// checkPortAvailable verifies that the target port is not already in use.
// Failing fast here beats a confusing bind error after the dataset loads.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func newDatasetSource(ctx context.Context, cfg config.DatasetConfig) (listing.Source, error) {
	switch cfg.Source {
	case "s3":
		return listing.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Region, cfg.AWSProfile,
			cfg.S3ListingKey, cfg.S3DistrictKey)
	case "postgres":
		return listing.NewPostgresSource(cfg.DatabaseURL)
	case "csv", "":
		return listing.NewCSVSource(cfg.ListingsPath, cfg.DistrictsPath), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

func main() {
	log.Println("Starting RevPAR advisor...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx := context.Background()

	source, err := newDatasetSource(ctx, cfg.Dataset)
	if err != nil {
		log.Fatalf("Failed to configure dataset source: %v", err)
	}
	ds, err := source.Load()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d listings and %d districts from %s",
		len(ds.Listings), len(ds.Districts), ds.Source)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	peers := benchmark.NewAccessor(ds)
	diagSvc := diagnosis.NewService(ds, peers)
	insSvc := insights.NewService(ds)

	if cfg.Predictor.Enabled {
		client := predictor.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout())
		diagSvc.SetPredictor(predictor.NewAdapter(client))
		log.Printf("ML predictor enabled at %s", cfg.Predictor.BaseURL)
	} else {
		log.Println("ML predictor disabled, diagnoses will report it unavailable")
	}

	server := api.NewServer(*cfg, ds, insSvc, diagSvc)
	server.Handlers().SetBenchmark(peers)
	server.Handlers().SetStorage(store)

	addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown: %v", err)
	}
	log.Println("Server stopped")
}
