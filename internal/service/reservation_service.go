package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"reservas/internal/events"
	"reservas/internal/models"
	"reservas/internal/notify"
	"reservas/internal/repository"
	"reservas/internal/validate"

	"github.com/rs/zerolog"
)

// ErrConfirmationRequired guards the bulk delete: the caller must pass both
// explicit confirmations before anything is erased.
var ErrConfirmationRequired = errors.New("bulk deletion requires both confirmations")

type ReservationService struct {
	repo     *repository.ReservationRepository
	bus      *events.Bus
	notifier notify.Notifier
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewReservationService(repo *repository.ReservationRepository, bus *events.Bus, notifier notify.Notifier, logger *zerolog.Logger) *ReservationService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ReservationService{
		repo:     repo,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates the submission and, when it passes, persists a new
// pending record. A failed validation returns the per-field errors and
// persists nothing. The operator notification runs after persistence and its
// failure only gets logged.
func (s *ReservationService) Submit(ctx context.Context, submission validate.Submission) (models.Reservation, validate.Result, error) {
	result := validate.Check(submission)
	if !result.Valid {
		return models.Reservation{}, result, nil
	}

	now := s.now()
	reservation := models.Reservation{
		ID:          now.UnixMilli(),
		FullName:    strings.TrimSpace(submission.FullName),
		Email:       strings.TrimSpace(submission.Email),
		Phone:       strings.TrimSpace(submission.Phone),
		CheckIn:     submission.CheckIn,
		CheckOut:    submission.CheckOut,
		Adults:      submission.Adults,
		Children:    submission.Children,
		Allergies:   submission.Allergies,
		Diet:        submission.Diet,
		Occasion:    submission.Occasion,
		Preferences: strings.TrimSpace(submission.Preferences),
		SubmittedAt: now,
		Status:      models.StatusPending,
	}

	if err := s.repo.Append(ctx, reservation); err != nil {
		return models.Reservation{}, result, err
	}

	s.publishCreated(reservation)

	if err := s.notifier.ReservationCreated(ctx, reservation); err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", reservation.ID).Msg("notification failed")
	}

	return reservation, result, nil
}

// List returns the filtered working set, most recent submission first.
func (s *ReservationService) List(ctx context.Context, filter repository.Filter) []models.Reservation {
	reservations := s.repo.LoadAll(ctx)
	reservations = repository.ApplyFilter(reservations, filter)
	return repository.SortBySubmittedAtDesc(reservations)
}

// All returns the unfiltered collection in insertion order, for exports.
func (s *ReservationService) All(ctx context.Context) []models.Reservation {
	return s.repo.LoadAll(ctx)
}

// Stats computes the dashboard counters.
func (s *ReservationService) Stats(ctx context.Context) models.DashboardStats {
	return repository.Stats(s.repo.LoadAll(ctx), s.now())
}

// ClearAll erases every reservation after both confirmations. Returns how
// many records were removed. Idempotent on an empty store.
func (s *ReservationService) ClearAll(ctx context.Context, confirm, confirmAgain bool) (int, error) {
	if !confirm || !confirmAgain {
		return 0, ErrConfirmationRequired
	}

	removed := len(s.repo.LoadAll(ctx))
	if err := s.repo.ClearAll(ctx); err != nil {
		return 0, err
	}

	if s.bus != nil {
		if err := s.bus.PublishJSON(events.EventReservationsCleared, events.ClearedEventPayload{Removed: removed}); err != nil {
			s.logger.Error().Err(err).Msg("publish cleared event")
		}
	}
	return removed, nil
}

func (s *ReservationService) publishCreated(r models.Reservation) {
	if s.bus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		FullName:      r.FullName,
		Email:         r.Email,
		Phone:         r.Phone,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Guests:        r.Guests(),
		SubmittedAt:   r.SubmittedAt,
	}
	if err := s.bus.PublishJSON(events.EventReservationCreated, payload); err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("publish created event")
	}
}
