package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"reservas/internal/models"
	"reservas/internal/storage"

	"github.com/rs/zerolog"
)

// ReservationRepository owns the persisted reservation list. It holds no
// long-lived in-memory copy; each dashboard load reads fresh from the store.
type ReservationRepository struct {
	store  storage.KV
	logger *zerolog.Logger
}

func NewReservationRepository(store storage.KV, logger *zerolog.Logger) *ReservationRepository {
	return &ReservationRepository{store: store, logger: logger}
}

// LoadAll returns every persisted reservation. An absent key or corrupt JSON
// document yields an empty list; the fault is logged, never propagated.
func (r *ReservationRepository) LoadAll(ctx context.Context) []models.Reservation {
	raw, err := r.store.Get(ctx, storage.KeyReservations)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("read reservations")
		return nil
	}

	var reservations []models.Reservation
	if err := json.Unmarshal(raw, &reservations); err != nil {
		r.logger.Error().Err(err).Msg("corrupt reservation data, treating as empty")
		return nil
	}
	return reservations
}

// Append loads the current list, adds the record and writes the list back.
// Read-modify-write with no lock: last writer wins, accepted for the
// single-operator deployment.
func (r *ReservationRepository) Append(ctx context.Context, reservation models.Reservation) error {
	reservations := r.LoadAll(ctx)
	reservations = append(reservations, reservation)

	raw, err := json.Marshal(reservations)
	if err != nil {
		return fmt.Errorf("encode reservations: %w", err)
	}
	if err := r.store.Put(ctx, storage.KeyReservations, raw); err != nil {
		return fmt.Errorf("write reservations: %w", err)
	}

	r.logger.Info().Int64("id", reservation.ID).Str("name", reservation.FullName).Msg("reservation stored")
	return nil
}

// ClearAll erases the persisted collection. Idempotent: clearing an already
// empty store succeeds. Callers gate this behind explicit confirmations.
func (r *ReservationRepository) ClearAll(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.KeyReservations); err != nil {
		return fmt.Errorf("clear reservations: %w", err)
	}
	r.logger.Warn().Msg("all reservations deleted")
	return nil
}

// Filter selects reservations matching the given criteria. Empty criteria
// match everything; both dimensions are ANDed.
type Filter struct {
	// Name matches case-insensitively as a substring of fullName or email.
	Name string
	// Date matches exactly against either checkIn or checkOut.
	Date string
}

func ApplyFilter(reservations []models.Reservation, f Filter) []models.Reservation {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	date := strings.TrimSpace(f.Date)

	out := make([]models.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		if name != "" {
			fullName := strings.ToLower(reservation.FullName)
			email := strings.ToLower(reservation.Email)
			if !strings.Contains(fullName, name) && !strings.Contains(email, name) {
				continue
			}
		}
		if date != "" && reservation.CheckIn != date && reservation.CheckOut != date {
			continue
		}
		out = append(out, reservation)
	}
	return out
}

// SortBySubmittedAtDesc orders most recent first. Records lacking a
// submission timestamp sort as epoch zero, i.e. oldest.
func SortBySubmittedAtDesc(reservations []models.Reservation) []models.Reservation {
	sorted := make([]models.Reservation, len(reservations))
	copy(sorted, reservations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})
	return sorted
}

// Stats computes the dashboard counters over the full collection.
func Stats(reservations []models.Reservation, now time.Time) models.DashboardStats {
	today := now.Format(models.DateLayout)

	stats := models.DashboardStats{TotalClients: len(reservations)}
	for _, reservation := range reservations {
		stats.TotalGuests += reservation.Guests()
		if reservation.CheckIn != "" && reservation.CheckIn >= today {
			stats.UpcomingEvents++
		}
	}
	return stats
}
