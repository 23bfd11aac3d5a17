package pos

import (
	"context"
	"encoding/json"
	"testing"

	"reservas/internal/events"
	"reservas/internal/logging"
	"reservas/internal/models"
	"reservas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenu() models.Menu {
	return models.Menu{
		{
			ID:   "postres",
			Name: "Postres",
			Items: []models.MenuItem{
				{ID: "po1", Name: "Lava Cake de Chocolate"},
				{ID: "po2", Name: "Tiramisú Clásico"},
			},
		},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(storage.NewMemoryStore(), testMenu(), nil, logging.Nop())
}

func TestCartStartsEmpty(t *testing.T) {
	s := newTestService(t)
	cart := s.Cart(context.Background())
	assert.Empty(t, cart)
	assert.Equal(t, 0, cart.TotalItems())
}

func TestAddNewAndExistingItem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	cart, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	require.Contains(t, cart, "po1")
	assert.Equal(t, 1, cart["po1"].Quantity)
	assert.Equal(t, "Lava Cake de Chocolate", cart["po1"].Name)
	assert.Equal(t, "postres", cart["po1"].Category)

	cart, err = s.Add(ctx, "po1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart["po1"].Quantity)
	assert.Equal(t, 2, cart.TotalItems())
}

func TestAddUnknownItem(t *testing.T) {
	s := newTestService(t)

	_, err := s.Add(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Empty(t, s.Cart(context.Background()))
}

func TestIncrementUnknownEntryIsNoop(t *testing.T) {
	s := newTestService(t)

	cart, err := s.Increment(context.Background(), "po1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestDecrementRemovesAtOne(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Increment(ctx, "po1")
	require.NoError(t, err)

	cart, err := s.Decrement(ctx, "po1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart["po1"].Quantity)

	cart, err = s.Decrement(ctx, "po1")
	require.NoError(t, err)
	assert.NotContains(t, cart, "po1")
}

func TestRemove(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Add(ctx, "po2")
	require.NoError(t, err)

	cart, err := s.Remove(ctx, "po1")
	require.NoError(t, err)
	assert.NotContains(t, cart, "po1")
	assert.Contains(t, cart, "po2")
}

func TestClear(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Cart(ctx))
}

func TestConfirmEmptyCart(t *testing.T) {
	s := newTestService(t)

	_, err := s.Confirm(context.Background(), false)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmKeepsCartByDefault(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Add(ctx, "po1")
	require.NoError(t, err)

	selection, err := s.Confirm(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, selection.TotalItems)
	assert.False(t, selection.Timestamp.IsZero())

	// The cart survives a confirmation unless explicitly cleared.
	assert.Equal(t, 2, s.Cart(ctx).TotalItems())

	selections := s.Selections(ctx)
	require.Len(t, selections, 1)
	assert.Equal(t, 2, selections[0].TotalItems)
}

func TestConfirmClearAfter(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po2")
	require.NoError(t, err)

	_, err = s.Confirm(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, s.Cart(ctx))
}

func TestConfirmAppendsHistory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Confirm(ctx, false)
	require.NoError(t, err)
	_, err = s.Confirm(ctx, false)
	require.NoError(t, err)

	assert.Len(t, s.Selections(ctx), 2)
}

func TestCorruptCartTreatedAsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewService(store, testMenu(), nil, logging.Nop())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storage.KeyPOSCart, []byte("{broken")))
	assert.Empty(t, s.Cart(ctx))

	// Recoverable: the next add overwrites the corrupt document.
	cart, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestConfirmPublishesEvent(t *testing.T) {
	bus := events.NewBus()
	s := NewService(storage.NewMemoryStore(), testMenu(), bus, logging.Nop())
	ctx := context.Background()

	var got events.SelectionEventPayload
	var published int
	bus.Subscribe(events.EventSelectionConfirmed, func(event *events.Event) error {
		published++
		return json.Unmarshal(event.Payload, &got)
	})

	_, err := s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Add(ctx, "po1")
	require.NoError(t, err)
	_, err = s.Add(ctx, "po2")
	require.NoError(t, err)

	_, err = s.Confirm(ctx, true)
	require.NoError(t, err)

	require.Equal(t, 1, published)
	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, 2, got.DistinctItems)
	assert.True(t, got.CartCleared)
}
