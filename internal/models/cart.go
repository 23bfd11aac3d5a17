package models

import "time"

// CartEntry is one selected menu item; entries are removed at quantity 0.
type CartEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// Cart maps menu-item id to its entry.
type Cart map[string]CartEntry

// TotalItems sums the quantities across all entries.
func (c Cart) TotalItems() int {
	total := 0
	for _, entry := range c {
		total += entry.Quantity
	}
	return total
}

// Selection is a confirmed snapshot of the cart.
type Selection struct {
	Items      Cart      `json:"items"`
	Timestamp  time.Time `json:"timestamp"`
	TotalItems int       `json:"totalItems"`
}
