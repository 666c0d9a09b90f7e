// internal/application/cartstore/store.go
package cartstore

import (
	"errors"
	"log"
	"strings"
	"sync"

	cartdom "storefront/internal/domain/cart"
)

var (
	ErrInvalidArgument = errors.New("cart_store: invalid argument")
	ErrClosed          = errors.New("cart_store: closed")
)

// Archive is the durable-storage port for carts.
// Writes are best-effort from the store's point of view: a failed Save never
// fails the in-memory mutation.
type Archive interface {
	// LoadAll returns every persisted cart keyed by owner id.
	// Individual corrupt entries should be dropped, not fail the whole load.
	LoadAll() (map[string][]cartdom.LineItem, error)
	Save(ownerID string, items []cartdom.LineItem) error
	Delete(ownerID string) error
}

// Store owns the authoritative in-memory carts, one per owner (uid).
//
//   - sole mutator of cart state; single source of truth for totals
//   - every mutation is followed synchronously by a best-effort durable write
//   - rehydrates from the archive at construction (absent/corrupt -> empty)
//   - observers subscribe explicitly and are released on unsubscribe/Close
type Store struct {
	mu      sync.Mutex
	carts   map[string]*cartdom.Cart
	archive Archive

	subs    map[int]func(ownerID string)
	nextSub int
	closed  bool
}

// New builds the store and rehydrates persisted carts.
// A failed LoadAll degrades to an empty store with a warning; the archive
// stays attached so later mutations still persist.
func New(archive Archive) *Store {
	s := &Store{
		carts:   map[string]*cartdom.Cart{},
		archive: archive,
		subs:    map[int]func(string){},
	}

	if archive == nil {
		return s
	}

	persisted, err := archive.LoadAll()
	if err != nil {
		log.Printf("[cart_store] WARN: rehydrate failed: %v (starting empty)", err)
		return s
	}
	for owner, items := range persisted {
		owner = strings.TrimSpace(owner)
		if owner == "" {
			continue
		}
		s.carts[owner] = cartdom.New(items)
	}
	if len(s.carts) > 0 {
		log.Printf("[cart_store] rehydrated %d cart(s)", len(s.carts))
	}
	return s
}

// AddItem merges a product snapshot into ownerID's cart.
// qtyDelta must be >= 1 (non-positive deltas are rejected, not clamped).
func (s *Store) AddItem(ownerID string, snapshot cartdom.LineItem, qtyDelta int) error {
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	c := s.cartLocked(owner)
	if err := c.Add(snapshot, qtyDelta); err != nil {
		return err
	}
	s.persistLocked(owner, c)
	s.notifyLocked(owner)
	return nil
}

// UpdateQuantity sets the quantity directly; qty < 1 removes the line
// (total operation, same contract as RemoveItem).
func (s *Store) UpdateQuantity(ownerID, productID string, qty int) error {
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	c := s.cartLocked(owner)
	if err := c.SetQuantity(productID, qty); err != nil {
		return err
	}
	s.persistLocked(owner, c)
	s.notifyLocked(owner)
	return nil
}

// RemoveItem removes productID entirely. No-op (not an error) if absent.
func (s *Store) RemoveItem(ownerID, productID string) error {
	return s.UpdateQuantity(ownerID, productID, 0)
}

// Clear empties ownerID's cart. Idempotent.
func (s *Store) Clear(ownerID string) error {
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	c := s.cartLocked(owner)
	c.Clear()
	s.persistLocked(owner, c)
	s.notifyLocked(owner)
	return nil
}

// Items returns a copy of ownerID's line items (insertion order).
func (s *Store) Items(ownerID string) []cartdom.LineItem {
	owner := strings.TrimSpace(ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[owner]
	if !ok {
		return []cartdom.LineItem{}
	}
	return c.Snapshot()
}

// Totals derives totals on demand; nothing is cached.
func (s *Store) Totals(ownerID string) cartdom.Totals {
	owner := strings.TrimSpace(ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[owner]
	if !ok {
		return cartdom.Totals{}
	}
	return c.Totals()
}

// Subscribe registers fn for mutation notifications and returns the
// matching unsubscribe. fn is called with the mutated owner id while the
// store lock is NOT held.
func (s *Store) Subscribe(fn func(ownerID string)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close detaches all subscribers and rejects further mutations.
// Reads keep working (shutdown-friendly).
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = map[int]func(string){}
	return nil
}

func (s *Store) cartLocked(owner string) *cartdom.Cart {
	c, ok := s.carts[owner]
	if !ok {
		c = cartdom.New(nil)
		s.carts[owner] = c
	}
	return c
}

// persistLocked writes the cart through to the archive.
// Failure is non-fatal: the in-memory state stays authoritative for the
// rest of the session and the error is only warned about.
func (s *Store) persistLocked(owner string, c *cartdom.Cart) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(owner, c.Snapshot()); err != nil {
		log.Printf("[cart_store] WARN: persist failed owner=%s: %v (in-memory state kept)", owner, err)
	}
}

func (s *Store) notifyLocked(owner string) {
	if len(s.subs) == 0 {
		return
	}
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	// release the lock before fan-out so subscribers may read the store
	go func() {
		for _, fn := range fns {
			fn(owner)
		}
	}()
}
