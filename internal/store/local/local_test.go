package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/store"
	"chitieu/internal/store/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	kvs := kv.NewMemory()
	s := New(kvs, 0, true)
	s.now = func() time.Time { return time.Date(2024, 6, 20, 12, 0, 0, 0, time.Local) }
	next := 0
	s.newID = func() string {
		next++
		return fmt.Sprintf("test-id-%d", next)
	}
	return s, kvs
}

func TestFirstListSeedsDemoData(t *testing.T) {
	s, kvs := newTestStore(t)
	ctx := context.Background()

	expenses, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 5 {
		t.Fatalf("expected 5 demo records, got %d", len(expenses))
	}
	for i := 0; i < len(expenses)-1; i++ {
		if expenses[i].Date.Before(expenses[i+1].Date.Time) {
			t.Fatalf("list not date-descending at %d", i)
		}
	}

	// Seeding must persist immediately.
	raw, ok, err := kvs.Get(ctx, expensesKey)
	if err != nil || !ok {
		t.Fatalf("expected persisted seed, ok=%v err=%v", ok, err)
	}
	var stored []core.Expense
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored seed malformed: %v", err)
	}
	if len(stored) != 5 {
		t.Fatalf("expected 5 stored records, got %d", len(stored))
	}
}

func TestNoSeedWhenDisabled(t *testing.T) {
	s := New(kv.NewMemory(), 0, false)
	expenses, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty store, got %d records", len(expenses))
	}
}

func TestCreateThenListIncludesDraft(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	draft := core.Expense{
		Description: "dinner with friends",
		Amount:      core.Money{Cents: 12000000},
		Category:    core.Food,
		Date:        core.NewDate(2024, 6, 18),
	}
	id, err := s.Create(ctx, draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty assigned id")
	}

	expenses, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, e := range expenses {
		if e.ID != id {
			continue
		}
		found = true
		if e.Description != draft.Description || e.Amount != draft.Amount ||
			e.Category != draft.Category || !e.Date.Equal(draft.Date.Time) {
			t.Fatalf("stored record does not match draft: %+v", e)
		}
	}
	if !found {
		t.Fatalf("created record %q missing from list", id)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	before, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	target := before[0].ID

	if err := s.Delete(ctx, target); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	after, _ := s.List(ctx)
	if len(after) != len(before)-1 {
		t.Fatalf("expected %d records, got %d", len(before)-1, len(after))
	}

	// Second delete of the same id: no error, no change.
	if err := s.Delete(ctx, target); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	again, _ := s.List(ctx)
	if len(again) != len(after) {
		t.Fatalf("second delete changed the collection: %d != %d", len(again), len(after))
	}
}

func TestMalformedStoredDataIsReadFailure(t *testing.T) {
	kvs := kv.NewMemory()
	if err := kvs.Set(context.Background(), expensesKey, "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s := New(kvs, 0, true)
	if _, err := s.List(context.Background()); !errors.Is(err, store.ErrReadFailure) {
		t.Fatalf("expected ErrReadFailure, got %v", err)
	}
}

type brokenKV struct{ err error }

func (b brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenKV) Set(context.Context, string, string) error         { return b.err }

func TestUnreachableKVIsUnavailable(t *testing.T) {
	s := New(brokenKV{err: errors.New("disk gone")}, 0, true)
	if _, err := s.List(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := s.Create(context.Background(), core.Expense{}); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on create, got %v", err)
	}
}

func TestLatencyRespectsContext(t *testing.T) {
	s := New(kv.NewMemory(), time.Minute, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
