// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCart     = errors.New("cart: invalid")
	ErrInvalidProduct  = errors.New("cart: invalid product snapshot")
	ErrInvalidQuantity = errors.New("cart: quantity must be >= 1")
)

// LineItem is one product entry in a cart.
// Title / ImageURL / UnitPrice are a denormalized snapshot taken at the time
// of the first add; they are never re-fetched against the current catalog.
type LineItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	ImageURL  string  `json:"imageUrl"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Totals is derived from the items on demand; it is never stored.
type Totals struct {
	TotalItemCount int     `json:"totalItemCount"`
	TotalPrice     float64 `json:"totalPrice"`
}

// Cart holds an ordered sequence of line items.
//   - at most one LineItem per ProductID (adding merges quantity)
//   - insertion order is preserved
type Cart struct {
	Items []LineItem `json:"items"`
}

// New builds a cart from previously persisted items.
// items can be nil (treated as empty). Duplicates are merged, invalid
// entries are dropped (tolerant rehydration).
func New(items []LineItem) *Cart {
	return &Cart{Items: normalizeAndMerge(items)}
}

// Add merges snapshot into the cart.
// qty must be >= 1; an existing line for the same product keeps its
// original snapshot fields and only gains quantity.
func (c *Cart) Add(snapshot LineItem, qty int) error {
	if c == nil {
		return ErrInvalidCart
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	pid := strings.TrimSpace(snapshot.ProductID)
	if pid == "" || snapshot.UnitPrice < 0 {
		return ErrInvalidProduct
	}

	if idx := c.indexOf(pid); idx >= 0 {
		c.Items[idx].Quantity += qty
		return nil
	}

	c.Items = append(c.Items, LineItem{
		ProductID: pid,
		Title:     strings.TrimSpace(snapshot.Title),
		ImageURL:  strings.TrimSpace(snapshot.ImageURL),
		UnitPrice: snapshot.UnitPrice,
		Quantity:  qty,
	})
	return nil
}

// SetQuantity sets the quantity for productID directly.
// qty < 1 removes the line entirely (total operation: equivalent to Remove).
// Setting a quantity for an absent product is a no-op unless qty >= 1 and
// the caller expects a line to exist; absent lines are left absent.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidProduct
	}

	idx := c.indexOf(pid)
	if qty < 1 {
		if idx >= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		}
		return nil
	}

	if idx >= 0 {
		c.Items[idx].Quantity = qty
	}
	return nil
}

// Remove removes productID from the cart. No-op (not an error) if absent.
func (c *Cart) Remove(productID string) error {
	return c.SetQuantity(productID, 0)
}

// Clear empties the whole item collection. Idempotent.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Items = []LineItem{}
}

// Totals recomputes derived totals from the current items.
func (c *Cart) Totals() Totals {
	var t Totals
	if c == nil {
		return t
	}
	for _, it := range c.Items {
		t.TotalItemCount += it.Quantity
		t.TotalPrice += it.UnitPrice * float64(it.Quantity)
	}
	return t
}

// Snapshot returns a copy of the items; callers may not mutate cart state
// through it.
func (c *Cart) Snapshot() []LineItem {
	if c == nil || len(c.Items) == 0 {
		return []LineItem{}
	}
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// normalizeAndMerge drops invalid entries and merges duplicate product ids,
// keeping first-occurrence order (persisted state may predate the
// uniqueness invariant).
func normalizeAndMerge(src []LineItem) []LineItem {
	out := make([]LineItem, 0, len(src))
	pos := map[string]int{}

	for _, it := range src {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			continue
		}
		if i, ok := pos[pid]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[pid] = len(out)
		out = append(out, LineItem{
			ProductID: pid,
			Title:     strings.TrimSpace(it.Title),
			ImageURL:  strings.TrimSpace(it.ImageURL),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return out
}
