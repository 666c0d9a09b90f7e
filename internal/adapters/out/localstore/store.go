// internal/adapters/out/localstore/store.go
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fixed namespaces, matching the storefront's durable-storage keys.
const (
	NamespaceCart  = "cart"
	NamespaceTheme = "theme"
)

var ErrInvalidKey = errors.New("localstore: invalid namespace/key")

// Store is durable local key-value storage: one JSON file per
// namespace/key under a data directory. It survives restarts but is not
// shared across instances, mirroring the browser localStorage contract.
type Store struct {
	dir string
}

// New creates the data directory (and namespace layout lazily).
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("localstore: dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the raw value. ok=false (no error) when the key is absent.
func (s *Store) Get(namespace, key string) (value []byte, ok bool, err error) {
	p, err := s.path(namespace, key)
	if err != nil {
		return nil, false, err
	}

	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("localstore: read %s/%s: %w", namespace, key, err)
	}
	return b, true, nil
}

// Put writes the value atomically (temp file + rename) so a crashed write
// can never leave a half-written value behind.
func (s *Store) Put(namespace, key string, value []byte) error {
	p, err := s.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("localstore: mkdir %s: %w", filepath.Dir(p), err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("localstore: write %s/%s: %w", namespace, key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localstore: rename %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes the key. No-op if absent.
func (s *Store) Delete(namespace, key string) error {
	p, err := s.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Keys lists the keys present in a namespace.
func (s *Store) Keys(namespace string) ([]string, error) {
	if !validPart(namespace) {
		return nil, ErrInvalidKey
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("localstore: list %s: %w", namespace, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

// GetJSON decodes the stored value into dst.
// ok=false when absent; a corrupt value is returned as an error so callers
// can decide to fall back to an empty state.
func (s *Store) GetJSON(namespace, key string, dst any) (ok bool, err error) {
	b, ok, err := s.Get(namespace, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("localstore: corrupt value %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it.
func (s *Store) PutJSON(namespace, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s/%s: %w", namespace, key, err)
	}
	return s.Put(namespace, key, b)
}

func (s *Store) path(namespace, key string) (string, error) {
	if !validPart(namespace) || !validPart(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, namespace, key+".json"), nil
}

// validPart rejects anything that could escape the data dir.
// Firebase UIDs and the fixed namespace names all pass.
func validPart(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, ".") {
		return false
	}
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
