package repository

import (
	"context"
	"testing"
	"time"

	"reservas/internal/logging"
	"reservas/internal/models"
	"reservas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*ReservationRepository, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewReservationRepository(store, logging.Nop()), store
}

func TestLoadAllEmptyStore(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.Empty(t, repo.LoadAll(context.Background()))
}

func TestLoadAllCorruptDataTreatedAsEmpty(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storage.KeyReservations, []byte("{not json")))
	assert.Empty(t, repo.LoadAll(ctx))

	// The store can recover: a fresh append replaces the corrupt document.
	require.NoError(t, repo.Append(ctx, models.Reservation{ID: 1, FullName: "Ana Ruiz"}))
	assert.Len(t, repo.LoadAll(ctx), 1)
}

func TestAppendPreservesOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, models.Reservation{ID: 1, FullName: "Ana Ruiz"}))
	require.NoError(t, repo.Append(ctx, models.Reservation{ID: 2, FullName: "Luis Pérez"}))

	all := repo.LoadAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
}

func TestClearAllIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, models.Reservation{ID: 1}))
	require.NoError(t, repo.ClearAll(ctx))
	assert.Empty(t, repo.LoadAll(ctx))

	// Clearing an already empty store succeeds.
	require.NoError(t, repo.ClearAll(ctx))
}

func sampleReservations() []models.Reservation {
	return []models.Reservation{
		{ID: 1, FullName: "Ana Ruiz", Email: "ana@example.com", CheckIn: "2026-09-10", CheckOut: "2026-09-12", Adults: 2},
		{ID: 2, FullName: "Luis Pérez", Email: "luis@example.com", CheckIn: "2026-09-11", CheckOut: "2026-09-13", Adults: 1, Children: 2},
		{ID: 3, FullName: "Mariana Solís", Email: "m.solis@example.com", CheckIn: "2026-10-01", CheckOut: "2026-10-03", Adults: 2, Children: 1},
	}
}

func TestApplyFilterByName(t *testing.T) {
	got := ApplyFilter(sampleReservations(), Filter{Name: "ana"})
	// Substring match: "Ana Ruiz" and "Mariana Solís" both contain "ana".
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestApplyFilterByEmail(t *testing.T) {
	got := ApplyFilter(sampleReservations(), Filter{Name: "luis@"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestApplyFilterByDateMatchesEitherEnd(t *testing.T) {
	got := ApplyFilter(sampleReservations(), Filter{Date: "2026-09-12"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestApplyFilterCombinesCriteria(t *testing.T) {
	got := ApplyFilter(sampleReservations(), Filter{Name: "ana", Date: "2026-10-01"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestApplyFilterEmptyMatchesEverything(t *testing.T) {
	all := sampleReservations()
	got := ApplyFilter(all, Filter{})
	assert.Equal(t, all, got)
}

func TestSortBySubmittedAtDesc(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	reservations := []models.Reservation{
		{ID: 1, SubmittedAt: base},
		{ID: 2, SubmittedAt: base.Add(time.Hour)},
		{ID: 3}, // no timestamp sorts last
	}

	sorted := SortBySubmittedAtDesc(reservations)
	require.Len(t, sorted, 3)
	assert.Equal(t, int64(2), sorted[0].ID)
	assert.Equal(t, int64(1), sorted[1].ID)
	assert.Equal(t, int64(3), sorted[2].ID)

	// Input order untouched.
	assert.Equal(t, int64(1), reservations[0].ID)
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 9, 11, 10, 0, 0, 0, time.UTC)
	stats := Stats(sampleReservations(), now)

	assert.Equal(t, 3, stats.TotalClients)
	assert.Equal(t, 8, stats.TotalGuests)
	// Check-ins on or after 2026-09-11 count as upcoming.
	assert.Equal(t, 2, stats.UpcomingEvents)
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil, time.Now())
	assert.Equal(t, models.DashboardStats{}, stats)
}
