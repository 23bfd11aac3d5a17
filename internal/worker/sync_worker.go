// Package worker runs background jobs: the spreadsheet mirror sync and its
// retry policy.
package worker

import (
	"context"
	"time"

	"reservas/internal/models"

	"github.com/rs/zerolog"
)

// SheetsClient is the slice of the spreadsheet service the worker needs.
type SheetsClient interface {
	ReplaceReservationsSheet(ctx context.Context, reservations []models.Reservation) error
}

// Source loads the current reservation collection at sync time.
type Source func(ctx context.Context) []models.Reservation

// SyncWorker mirrors the full reservation collection to the spreadsheet.
// Every sync is a full replacement, so back-to-back triggers coalesce into
// one pending sync instead of queueing per-record tasks.
type SyncWorker struct {
	sheets      SheetsClient
	source      Source
	retryPolicy RetryPolicy
	trigger     chan struct{}
	syncTimeout time.Duration
	logger      *zerolog.Logger
}

func NewSyncWorker(sheets SheetsClient, source Source, retry RetryPolicy, logger *zerolog.Logger) *SyncWorker {
	return &SyncWorker{
		sheets:      sheets,
		source:      source,
		retryPolicy: retry.withDefaults(),
		trigger:     make(chan struct{}, 1),
		syncTimeout: 30 * time.Second,
		logger:      logger,
	}
}

// Trigger schedules a sync. Never blocks; a trigger arriving while one is
// already pending folds into it.
func (w *SyncWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run consumes triggers until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("sheets sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sheets sync worker stopped")
			return
		case <-w.trigger:
			w.syncWithRetry(ctx)
		}
	}
}

func (w *SyncWorker) syncWithRetry(ctx context.Context) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.syncOnce(ctx)
		if err == nil {
			w.logger.Debug().Int("attempt", attempt).Msg("sheets sync completed")
			return
		}
		if ctx.Err() != nil {
			return
		}

		w.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", w.retryPolicy.MaxRetries).
			Msg("sheets sync failed")

		if attempt == w.retryPolicy.MaxRetries {
			w.logger.Error().Msg("sheets sync gave up; mirror is stale until the next trigger")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}

func (w *SyncWorker) syncOnce(ctx context.Context) error {
	syncCtx, cancel := context.WithTimeout(ctx, w.syncTimeout)
	defer cancel()

	reservations := w.source(syncCtx)
	return w.sheets.ReplaceReservationsSheet(syncCtx, reservations)
}
