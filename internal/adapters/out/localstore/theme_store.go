// internal/adapters/out/localstore/theme_store.go
package localstore

import (
	"errors"
	"strings"
)

// Theme values accepted by the preference store.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrInvalidTheme = errors.New("theme_store: theme must be light or dark")

// ThemeStore persists the per-user theme preference under the fixed
// "theme" namespace (the storefront's second durable-storage key).
type ThemeStore struct {
	Store *Store
}

func NewThemeStore(store *Store) *ThemeStore {
	return &ThemeStore{Store: store}
}

// Get returns the stored preference; absent or unreadable -> light.
func (t *ThemeStore) Get(ownerID string) string {
	if t == nil || t.Store == nil {
		return ThemeLight
	}

	var theme string
	ok, err := t.Store.GetJSON(NamespaceTheme, strings.TrimSpace(ownerID), &theme)
	if err != nil || !ok {
		return ThemeLight
	}
	if theme != ThemeLight && theme != ThemeDark {
		return ThemeLight
	}
	return theme
}

func (t *ThemeStore) Set(ownerID, theme string) error {
	if t == nil || t.Store == nil {
		return errors.New("theme_store: store is nil")
	}

	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	return t.Store.PutJSON(NamespaceTheme, strings.TrimSpace(ownerID), theme)
}
