package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rehabdelivery/rehab_api/internal/repository"
)

// StaleDeliveryWorker periodically counts products sitting in delivery beyond
// the configured age and logs a warning, so the panel team notices parcels
// that never got confirmed or returned.
type StaleDeliveryWorker struct {
	productRepo *repository.ProductRepository
	interval    time.Duration
	staleAfter  time.Duration
}

// NewStaleDeliveryWorker constructs a StaleDeliveryWorker.
func NewStaleDeliveryWorker(productRepo *repository.ProductRepository, interval, staleAfter time.Duration) *StaleDeliveryWorker {
	return &StaleDeliveryWorker{
		productRepo: productRepo,
		interval:    interval,
		staleAfter:  staleAfter,
	}
}

// Start begins the periodic stale delivery audit until context is canceled.
func (w *StaleDeliveryWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("stale_after", w.staleAfter).
		Msg("Starting stale delivery worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Stale delivery worker stopped")
			return
		}
	}
}

func (w *StaleDeliveryWorker) run(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	count, err := w.productRepo.CountStaleDeliveries(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count stale deliveries")
		return
	}
	if count == 0 {
		return
	}

	log.Warn().
		Int("count", count).
		Time("cutoff", cutoff).
		Msg("Products stuck in delivery past the configured age")
}
