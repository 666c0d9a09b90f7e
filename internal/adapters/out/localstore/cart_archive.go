// internal/adapters/out/localstore/cart_archive.go
package localstore

import (
	"errors"
	"log"

	cartdom "storefront/internal/domain/cart"
)

// CartArchive persists carts under the fixed "cart" namespace, one entry
// per owner uid. It implements cartstore.Archive.
type CartArchive struct {
	Store *Store
}

func NewCartArchive(store *Store) *CartArchive {
	return &CartArchive{Store: store}
}

// LoadAll reads every persisted cart. A corrupt entry is dropped with a
// warning instead of failing the rehydrate (absent/corrupt -> empty cart).
func (a *CartArchive) LoadAll() (map[string][]cartdom.LineItem, error) {
	if a == nil || a.Store == nil {
		return nil, errors.New("cart_archive: store is nil")
	}

	keys, err := a.Store.Keys(NamespaceCart)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]cartdom.LineItem, len(keys))
	for _, owner := range keys {
		var items []cartdom.LineItem
		ok, err := a.Store.GetJSON(NamespaceCart, owner, &items)
		if err != nil {
			log.Printf("[cart_archive] WARN: dropping corrupt cart owner=%s: %v", owner, err)
			continue
		}
		if !ok {
			continue
		}
		out[owner] = items
	}
	return out, nil
}

func (a *CartArchive) Save(ownerID string, items []cartdom.LineItem) error {
	if a == nil || a.Store == nil {
		return errors.New("cart_archive: store is nil")
	}
	if items == nil {
		items = []cartdom.LineItem{}
	}
	return a.Store.PutJSON(NamespaceCart, ownerID, items)
}

func (a *CartArchive) Delete(ownerID string) error {
	if a == nil || a.Store == nil {
		return errors.New("cart_archive: store is nil")
	}
	return a.Store.Delete(NamespaceCart, ownerID)
}
