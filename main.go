package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bseworker/config"
	"bseworker/internal/bse"
	"bseworker/logger"
	"bseworker/services/cache"
	"bseworker/services/publisher"
	"bseworker/services/sink"
	"bseworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	day, err := scrapeDay()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid scrape date")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("date", day.Format("2006-01-02")).
		Int("concurrency", cfg.Concurrency).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Initialize services
	services, err := initializeServices(ctx, &cfg, day)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	client := bse.NewClient(cfg, services.Cache)

	// The listing call is the one fatal failure: without it there is
	// nothing to resolve
	announcements, err := client.FetchAnnouncements(ctx, day)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch announcement list")
	}

	announcements = worker.FilterByDay(announcements, day)
	if len(announcements) == 0 {
		log.Info().Str("date", day.Format("2006-01-02")).Msg("No announcements for the day")
		return
	}

	w := worker.NewWorker(client, services.Sink, services.Publisher, cfg.Concurrency)
	written, err := w.Run(ctx, announcements)
	if err != nil {
		log.Fatal().Err(err).Int("written", written).Msg("Run failed")
	}

	log.Info().
		Int("written", written).
		Str("output", services.Sink.Path()).
		Msg("Scrape complete")
}

// scrapeDay returns the day to scrape: SCRAPE_DATE (YYYY-MM-DD) if set,
// otherwise today in the exchange's timezone
func scrapeDay() (time.Time, error) {
	if raw := os.Getenv("SCRAPE_DATE"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("SCRAPE_DATE must be YYYY-MM-DD: %w", err)
		}
		return day, nil
	}

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.Local
	}
	return time.Now().In(loc), nil
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Sink      *sink.CSVSink
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Sink != nil {
		s.Sink.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config, day time.Time) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if cacheService == nil {
		return nil, fmt.Errorf("failed to create cache service")
	}
	services.Cache = cacheService

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	if redisPublisher == nil {
		return nil, fmt.Errorf("failed to create redis publisher")
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Initialize output sink
	csvSink, err := sink.NewCSVSink(cfg.OutputDir, day)
	if err != nil {
		return nil, err
	}
	services.Sink = csvSink

	logger.Info("Writing output to %s", csvSink.Path())

	return services, nil
}
