// Package local implements the persistence port over a durable key-value
// store: the whole expense collection is one serialized JSON array under a
// single fixed key, rewritten wholesale on every create and delete.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"chitieu/internal/core"
	"chitieu/internal/store"
	"chitieu/internal/store/kv"
)

const expensesKey = "expenses"

type Store struct {
	kv      kv.Store
	latency time.Duration
	seed    bool

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// New returns a local store over the given kv handle. When seedDemo is set,
// the first List against an empty store writes a fixed demo dataset.
// latency, when non-zero, delays every operation so callers exercise their
// loading states; it is not a correctness concern.
func New(kvs kv.Store, latency time.Duration, seedDemo bool) *Store {
	return &Store{
		kv:      kvs,
		latency: latency,
		seed:    seedDemo,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Store) List(ctx context.Context) ([]core.Expense, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	expenses, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sorted := append([]core.Expense(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	return sorted, nil
}

func (s *Store) Create(ctx context.Context, draft core.Expense) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	expenses, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	draft.ID = s.newID()
	expenses = append([]core.Expense{draft}, expenses...)
	if err := s.save(ctx, expenses); err != nil {
		return "", err
	}
	return draft.ID, nil
}

// Delete removes the expense with the given id. An absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	expenses, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.save(ctx, kept)
}

func (s *Store) load(ctx context.Context) ([]core.Expense, error) {
	raw, ok, err := s.kv.Get(ctx, expensesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if !ok {
		if !s.seed {
			return nil, nil
		}
		seeded := demoExpenses(s.now())
		if err := s.save(ctx, seeded); err != nil {
			// Keep serving the demo data even when it cannot be persisted.
			slog.WarnContext(ctx, "Failed to persist demo seed", "error", err)
		}
		return seeded, nil
	}

	var expenses []core.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrReadFailure, err)
	}
	return expenses, nil
}

func (s *Store) save(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailure, err)
	}
	if err := s.kv.Set(ctx, expensesKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailure, err)
	}
	return nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// demoExpenses is the dataset a fresh store is seeded with: a spread of
// records across yesterday, the first of the current month and mid-month,
// so the filters and the chart have something to show.
func demoExpenses(now time.Time) []core.Expense {
	yesterday := now.AddDate(0, 0, -1)
	first := core.NewDate(now.Year(), int(now.Month()), 1)
	mid := core.NewDate(now.Year(), int(now.Month()), 15)

	return []core.Expense{
		{ID: "demo-1", Description: "Morning coffee", Amount: core.Money{Cents: 4500000}, Category: core.Food, Date: core.NewDate(yesterday.Year(), int(yesterday.Month()), yesterday.Day())},
		{ID: "demo-2", Description: "Fuel refill", Amount: core.Money{Cents: 50000000}, Category: core.Transport, Date: first},
		{ID: "demo-3", Description: "Grocery run", Amount: core.Money{Cents: 75000000}, Category: core.Shopping, Date: mid},
		{ID: "demo-4", Description: "Office lunch", Amount: core.Money{Cents: 6000000}, Category: core.Food, Date: first},
		{ID: "demo-5", Description: "Weekend movie", Amount: core.Money{Cents: 25000000}, Category: core.Entertainment, Date: core.NewDate(yesterday.Year(), int(yesterday.Month()), yesterday.Day())},
	}
}
