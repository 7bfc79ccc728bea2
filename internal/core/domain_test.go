package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Description: "lunch",
		Amount:      Money{Cents: 4500000},
		Category:    Food,
		Date:        NewDate(2024, 6, 14),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"empty description", func(e *Expense) { e.Description = "   " }, ErrEmptyDescription},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"unknown category", func(e *Expense) { e.Category = "Gambling" }, ErrInvalidCategory},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
		if c.Color() == "" {
			t.Fatalf("category %q has no color", c)
		}
	}
	if Category("Gambling").Valid() {
		t.Fatalf("unknown label should not be valid")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 6, 1)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2024-06-01"` {
		t.Fatalf("unexpected wire form %s", raw)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"June 1st"`), &back); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-14")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || int(d.Month()) != 6 || d.Day() != 14 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("14/06/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
