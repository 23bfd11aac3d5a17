// Package pos holds the price-less menu-selection cart.
package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reservas/internal/events"
	"reservas/internal/models"
	"reservas/internal/storage"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownItem rejects ids not present in the menu catalog.
	ErrUnknownItem = errors.New("menu item not found")
	// ErrEmptyCart rejects confirming a selection with nothing in it.
	ErrEmptyCart = errors.New("cart is empty")
)

type Service struct {
	store  storage.KV
	menu   models.Menu
	bus    *events.Bus
	logger *zerolog.Logger
}

func NewService(store storage.KV, menu models.Menu, bus *events.Bus, logger *zerolog.Logger) *Service {
	return &Service{store: store, menu: menu, bus: bus, logger: logger}
}

// Menu returns the catalog served to the widget.
func (s *Service) Menu() models.Menu {
	return s.menu
}

// Cart loads the persisted cart. Absent or corrupt data reads as empty,
// same policy as the reservation list.
func (s *Service) Cart(ctx context.Context) models.Cart {
	raw, err := s.store.Get(ctx, storage.KeyPOSCart)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Cart{}
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("read cart")
		return models.Cart{}
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Error().Err(err).Msg("corrupt cart data, treating as empty")
		return models.Cart{}
	}
	if cart == nil {
		cart = models.Cart{}
	}
	return cart
}

func (s *Service) saveCart(ctx context.Context, cart models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Put(ctx, storage.KeyPOSCart, raw); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

// Add inserts the item at quantity 1 or increments an existing entry.
func (s *Service) Add(ctx context.Context, itemID string) (models.Cart, error) {
	item, categoryID, ok := s.menu.FindItem(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	cart := s.Cart(ctx)
	if entry, exists := cart[itemID]; exists {
		entry.Quantity++
		cart[itemID] = entry
	} else {
		cart[itemID] = models.CartEntry{
			ID:       itemID,
			Name:     item.Name,
			Quantity: 1,
			Category: categoryID,
		}
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Increment raises the quantity by one. Unknown entries are a no-op.
func (s *Service) Increment(ctx context.Context, itemID string) (models.Cart, error) {
	cart := s.Cart(ctx)
	entry, exists := cart[itemID]
	if !exists {
		return cart, nil
	}
	entry.Quantity++
	cart[itemID] = entry

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Decrement lowers the quantity by one; at 1 the entry is removed entirely.
func (s *Service) Decrement(ctx context.Context, itemID string) (models.Cart, error) {
	cart := s.Cart(ctx)
	entry, exists := cart[itemID]
	if !exists {
		return cart, nil
	}

	if entry.Quantity > 1 {
		entry.Quantity--
		cart[itemID] = entry
	} else {
		delete(cart, itemID)
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes the entry unconditionally.
func (s *Service) Remove(ctx context.Context, itemID string) (models.Cart, error) {
	cart := s.Cart(ctx)
	delete(cart, itemID)

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeyPOSCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Confirm snapshots the cart with a timestamp into the selection history.
// The cart stays intact unless clearAfter is set.
func (s *Service) Confirm(ctx context.Context, clearAfter bool) (models.Selection, error) {
	cart := s.Cart(ctx)
	if len(cart) == 0 {
		return models.Selection{}, ErrEmptyCart
	}

	selection := models.Selection{
		Items:      cart,
		Timestamp:  time.Now(),
		TotalItems: cart.TotalItems(),
	}

	selections := s.Selections(ctx)
	selections = append(selections, selection)

	raw, err := json.Marshal(selections)
	if err != nil {
		return models.Selection{}, fmt.Errorf("encode selections: %w", err)
	}
	if err := s.store.Put(ctx, storage.KeyMenuSelections, raw); err != nil {
		return models.Selection{}, fmt.Errorf("write selections: %w", err)
	}

	if clearAfter {
		if err := s.Clear(ctx); err != nil {
			return models.Selection{}, err
		}
	}

	payload := events.SelectionEventPayload{
		TotalItems:    selection.TotalItems,
		DistinctItems: len(selection.Items),
		CartCleared:   clearAfter,
	}
	if err := s.bus.PublishJSON(events.EventSelectionConfirmed, payload); err != nil {
		s.logger.Error().Err(err).Msg("publish selection event")
	}

	s.logger.Info().Int("total_items", selection.TotalItems).Msg("menu selection confirmed")
	return selection, nil
}

// Selections returns the confirmed history, oldest first.
func (s *Service) Selections(ctx context.Context) []models.Selection {
	raw, err := s.store.Get(ctx, storage.KeyMenuSelections)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("read selections")
		return nil
	}

	var selections []models.Selection
	if err := json.Unmarshal(raw, &selections); err != nil {
		s.logger.Error().Err(err).Msg("corrupt selection data, treating as empty")
		return nil
	}
	return selections
}
