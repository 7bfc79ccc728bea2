// Package theme persists the light/dark preference under its own key in
// the key-value store. Purely presentational; no data-model interaction.
package theme

import (
	"context"
	"errors"
	"fmt"

	"chitieu/internal/store/kv"
)

const (
	key = "theme"

	Light = "light"
	Dark  = "dark"
)

var ErrInvalidPreference = errors.New("invalid theme preference")

type Store struct {
	kv kv.Store
}

func New(kvs kv.Store) *Store {
	return &Store{kv: kvs}
}

// Get returns the stored preference, or "" when the user never chose one
// (the UI then mirrors the system preference).
func (s *Store) Get(ctx context.Context) (string, error) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read theme preference: %w", err)
	}
	if !ok {
		return "", nil
	}
	if value != Light && value != Dark {
		return "", nil
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, preference string) error {
	if preference != Light && preference != Dark {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, preference)
	}
	if err := s.kv.Set(ctx, key, preference); err != nil {
		return fmt.Errorf("store theme preference: %w", err)
	}
	return nil
}
