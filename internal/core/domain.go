package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies an expense. The set is closed; records carrying any
// other label are considered malformed.
const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Rent          Category = "Rent"
	Utilities     Category = "Utilities"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Shopping      Category = "Shopping"
	Other         Category = "Other"
)

type (
	Category string

	// Date is a calendar day. The wall-clock part is always midnight in
	// local time; month grouping follows the local calendar.
	Date struct {
		time.Time
	}

	// Expense is a single recorded spending event. A draft is an Expense
	// with an empty ID; the persistence layer assigns the ID on create and
	// it is never reassigned afterwards.
	Expense struct {
		ID          string   `json:"id"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Date        Date     `json:"date"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
)

var categories = []Category{
	Food, Transport, Rent, Utilities, Entertainment, Health, Shopping, Other,
}

// categoryColors are the fixed legend colors for the donut chart.
var categoryColors = map[Category]string{
	Food:          "#4ade80",
	Transport:     "#60a5fa",
	Rent:          "#f87171",
	Utilities:     "#facc15",
	Entertainment: "#c084fc",
	Health:        "#fb923c",
	Shopping:      "#22d3ee",
	Other:         "#9ca3af",
}

// Categories returns all category labels in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the fixed legend color for the category, or the Other
// color for unknown labels.
func (c Category) Color() string {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return categoryColors[Other]
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a Date from year, month and day in local time.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// ParseDate parses an ISO-8601 date string (YYYY-MM-DD) in local time.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	return nil
}
