// internal/application/cartstore/store_test.go
package cartstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
)

// fakeArchive records every Save so persistence can be asserted per mutation.
type fakeArchive struct {
	mu      sync.Mutex
	data    map[string][]cartdom.LineItem
	saves   int
	failAll bool
	loadErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{data: map[string][]cartdom.LineItem{}}
}

func (a *fakeArchive) LoadAll() (map[string][]cartdom.LineItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loadErr != nil {
		return nil, a.loadErr
	}
	out := map[string][]cartdom.LineItem{}
	for k, v := range a.data {
		items := make([]cartdom.LineItem, len(v))
		copy(items, v)
		out[k] = items
	}
	return out, nil
}

func (a *fakeArchive) Save(ownerID string, items []cartdom.LineItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAll {
		return errors.New("disk full")
	}
	cp := make([]cartdom.LineItem, len(items))
	copy(cp, items)
	a.data[ownerID] = cp
	a.saves++
	return nil
}

func (a *fakeArchive) Delete(ownerID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.data, ownerID)
	return nil
}

func (a *fakeArchive) saved(ownerID string) []cartdom.LineItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data[ownerID]
}

func (a *fakeArchive) saveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

func item(id string, price float64) cartdom.LineItem {
	return cartdom.LineItem{ProductID: id, Title: "t-" + id, UnitPrice: price}
}

func TestStoreAddItem(t *testing.T) {
	t.Run("accumulates quantity for the same product", func(t *testing.T) {
		s := New(newFakeArchive())

		require.NoError(t, s.AddItem("u1", item("p1", 10), 1))
		require.NoError(t, s.AddItem("u1", item("p1", 10), 2))

		items := s.Items("u1")
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("rejects non-positive deltas", func(t *testing.T) {
		s := New(newFakeArchive())

		assert.ErrorIs(t, s.AddItem("u1", item("p1", 10), 0), cartdom.ErrInvalidQuantity)
		assert.ErrorIs(t, s.AddItem("u1", item("p1", 10), -1), cartdom.ErrInvalidQuantity)
		assert.Empty(t, s.Items("u1"))
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		s := New(newFakeArchive())
		assert.ErrorIs(t, s.AddItem("  ", item("p1", 10), 1), ErrInvalidArgument)
	})

	t.Run("carts are isolated per owner", func(t *testing.T) {
		s := New(newFakeArchive())

		require.NoError(t, s.AddItem("u1", item("p1", 10), 1))
		require.NoError(t, s.AddItem("u2", item("p2", 5), 4))

		assert.Len(t, s.Items("u1"), 1)
		assert.Len(t, s.Items("u2"), 1)
		assert.Equal(t, "p1", s.Items("u1")[0].ProductID)
	})
}

func TestStoreUpdateQuantity(t *testing.T) {
	t.Run("quantity below one removes the line (same as RemoveItem)", func(t *testing.T) {
		s := New(newFakeArchive())
		require.NoError(t, s.AddItem("u1", item("p1", 10), 2))

		require.NoError(t, s.UpdateQuantity("u1", "p1", 0))
		assert.Empty(t, s.Items("u1"))
	})

	t.Run("removing an absent product is a no-op", func(t *testing.T) {
		s := New(newFakeArchive())
		require.NoError(t, s.RemoveItem("u1", "ghost"))
	})
}

func TestStoreTotals(t *testing.T) {
	s := New(newFakeArchive())
	require.NoError(t, s.AddItem("u1", item("p1", 10), 2))
	require.NoError(t, s.AddItem("u1", item("p2", 5), 3))

	tot := s.Totals("u1")
	assert.Equal(t, 5, tot.TotalItemCount)
	assert.Equal(t, 35.0, tot.TotalPrice)

	// unknown owner derives to zero
	assert.Equal(t, cartdom.Totals{}, s.Totals("nobody"))
}

func TestStorePersistence(t *testing.T) {
	t.Run("every mutation writes through", func(t *testing.T) {
		a := newFakeArchive()
		s := New(a)

		require.NoError(t, s.AddItem("u1", item("p1", 10), 1))
		require.NoError(t, s.UpdateQuantity("u1", "p1", 4))
		require.NoError(t, s.Clear("u1"))

		assert.Equal(t, 3, a.saveCount())
		assert.Empty(t, a.saved("u1"))
	})

	t.Run("rehydrates persisted carts on construction", func(t *testing.T) {
		a := newFakeArchive()
		first := New(a)
		require.NoError(t, first.AddItem("u1", item("p1", 10), 2))

		second := New(a)
		items := second.Items("u1")
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("failed rehydrate degrades to empty", func(t *testing.T) {
		a := newFakeArchive()
		a.loadErr = errors.New("boom")

		s := New(a)
		assert.Empty(t, s.Items("u1"))

		// the archive stays attached; later mutations persist again
		a.loadErr = nil
		require.NoError(t, s.AddItem("u1", item("p1", 10), 1))
		assert.Len(t, a.saved("u1"), 1)
	})

	t.Run("failed persist keeps the in-memory state", func(t *testing.T) {
		a := newFakeArchive()
		s := New(a)
		a.failAll = true

		require.NoError(t, s.AddItem("u1", item("p1", 10), 1))
		assert.Len(t, s.Items("u1"), 1)
		assert.Empty(t, a.saved("u1"))
	})
}

func TestStoreClearIdempotent(t *testing.T) {
	s := New(newFakeArchive())
	require.NoError(t, s.AddItem("u1", item("p1", 10), 1))

	require.NoError(t, s.Clear("u1"))
	require.NoError(t, s.Clear("u1"))
	assert.Empty(t, s.Items("u1"))
}

func TestStoreSubscribe(t *testing.T) {
	s := New(newFakeArchive())

	var mu sync.Mutex
	var seen []string
	unsubscribe := s.Subscribe(func(owner string) {
		mu.Lock()
		seen = append(seen, owner)
		mu.Unlock()
	})

	require.NoError(t, s.AddItem("u1", item("p1", 10), 1))

	// fan-out is async
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == "u1"
	}, time.Second, 10*time.Millisecond)

	unsubscribe()
	require.NoError(t, s.AddItem("u1", item("p1", 10), 1))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, seen, 1)
	mu.Unlock()
}

func TestStoreClose(t *testing.T) {
	s := New(newFakeArchive())
	require.NoError(t, s.AddItem("u1", item("p1", 10), 1))

	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.AddItem("u1", item("p1", 10), 1), ErrClosed)
	assert.ErrorIs(t, s.Clear("u1"), ErrClosed)

	// reads keep working after close
	assert.Len(t, s.Items("u1"), 1)
}
