package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jobboard_echo/internal/services"
)

const defaultIntentTTLHours = 48

// The sweeper garbage-collects abandoned payment intents: drafts whose
// transaction never came back from the gateway. It never retries
// reconciliation; a swept intent that later reports PAID surfaces as a
// DataIntegrityError for operator follow-up.
func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ttlHours := defaultIntentTTLHours
	if v := os.Getenv("INTENT_TTL_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}
	ttl := time.Duration(ttlHours) * time.Hour

	intents := services.NewIntentStore(db)

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info().Msg("shutting down sweeper")
		cancel()
	}()

	log.Info().Int("ttl_hours", ttlHours).Msg("intent sweeper started")

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// Run once on start, then tick
	sweep(ctx, intents, ttl)

	for {
		select {
		case <-ticker.C:
			sweep(ctx, intents, ttl)
		case <-ctx.Done():
			return
		}
	}
}

func sweep(ctx context.Context, intents *services.IntentStore, ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)
	swept, err := intents.DeleteStale(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("intent sweep failed")
		return
	}
	if swept > 0 {
		log.Info().Int64("count", swept).Time("cutoff", cutoff).Msg("swept abandoned intents")
	}
}
