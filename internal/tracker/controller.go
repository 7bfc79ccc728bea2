// Package tracker owns the in-memory application state: the authoritative
// expense list, loading and error flags, and the active filters. It
// orchestrates persistence port calls and derives the visible view.
package tracker

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"chitieu/internal/chart"
	"chitieu/internal/core"
	"chitieu/internal/store"
)

// Publisher receives change notifications after successful writes.
// Publishing failures are logged, never surfaced to the user.
type Publisher interface {
	ExpenseCreated(ctx context.Context, id string) error
	ExpenseDeleted(ctx context.Context, id string) error
}

// View is the derived snapshot handed to the presentation layer. Filtered,
// Months, Total, Breakdown and Segments are pure functions of the state.
type View struct {
	Expenses        []core.Expense       `json:"expenses"`
	Filtered        []core.Expense       `json:"filtered"`
	Loading         bool                 `json:"loading"`
	Error           string               `json:"error,omitempty"`
	CategoryFilter  string               `json:"categoryFilter"`
	MonthFilter     string               `json:"monthFilter"`
	AvailableMonths []string             `json:"availableMonths"`
	Total           core.Money           `json:"total"`
	Breakdown       []core.CategoryShare `json:"breakdown"`
	Segments        []chart.Segment      `json:"segments"`
	FormVisible     bool                 `json:"formVisible"`
}

type Controller struct {
	store  store.Store
	pub    Publisher // may be nil
	logger *slog.Logger

	mu             sync.Mutex
	expenses       []core.Expense
	loading        bool
	err            string
	categoryFilter string
	monthFilter    string
	formVisible    bool
}

// New returns a controller in its initial state: loading, no expenses, no
// error, both filters wide open.
func New(s store.Store, pub Publisher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:          s,
		pub:            pub,
		logger:         logger,
		loading:        true,
		categoryFilter: core.FilterAll,
		monthFilter:    core.FilterAll,
	}
}

// Load refreshes the expense list from the store. On failure the previous
// list stays in place and the error banner is set. Port calls happen
// outside the lock; if operations overlap, the later-completing response
// wins the expenses field.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	expenses, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = opError("cannot load expenses", err)
		c.logger.Error("Load expenses failed", "error", err)
		return err
	}
	c.expenses = expenses
	return nil
}

// Add validates the draft, persists it and reloads the full list. There is
// no optimistic insert: the reload is the source of truth. A validation
// failure never reaches the port and never touches the banner; the entry
// form reports it inline.
func (c *Controller) Add(ctx context.Context, draft core.Expense) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()

	id, err := c.store.Create(ctx, draft)
	if err != nil {
		c.mu.Lock()
		c.err = opError("cannot add expense", err)
		c.mu.Unlock()
		c.logger.Error("Add expense failed", "error", err, "description", draft.Description)
		return "", err
	}

	c.mu.Lock()
	c.formVisible = false
	c.mu.Unlock()

	c.publish(ctx, id, "created")
	if err := c.Load(ctx); err != nil {
		return id, err
	}
	c.logger.Info("Expense added", "id", id, "category", draft.Category, "amount_cents", draft.Amount.Cents)
	return id, nil
}

// Delete removes the expense optimistically: the in-memory list drops it
// first, the store call follows, and a failure restores the pre-delete
// snapshot alongside the error banner.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	c.err = ""
	snapshot := append([]core.Expense(nil), c.expenses...)
	kept := make([]core.Expense, 0, len(c.expenses))
	for _, e := range c.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.expenses = kept
	c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.expenses = snapshot
		c.err = opError("cannot delete expense", err)
		c.mu.Unlock()
		c.logger.Error("Delete expense failed", "error", err, "id", id)
		return err
	}

	c.publish(ctx, id, "deleted")
	c.logger.Info("Expense deleted", "id", id)
	return nil
}

// SetCategoryFilter narrows the visible set to one category, or FilterAll.
// Filter changes never trigger a reload. Unknown labels are ignored.
func (c *Controller) SetCategoryFilter(filter string) {
	if filter != core.FilterAll && !core.Category(filter).Valid() {
		return
	}
	c.mu.Lock()
	c.categoryFilter = filter
	c.mu.Unlock()
}

// SetMonthFilter narrows the visible set to one YYYY-MM key, or FilterAll.
func (c *Controller) SetMonthFilter(filter string) {
	c.mu.Lock()
	c.monthFilter = filter
	c.mu.Unlock()
}

func (c *Controller) ShowForm() {
	c.mu.Lock()
	c.formVisible = true
	c.mu.Unlock()
}

func (c *Controller) HideForm() {
	c.mu.Lock()
	c.formVisible = false
	c.mu.Unlock()
}

// View derives the current snapshot. The aggregation engine never mutates
// the expense list; everything here is computed fresh per call.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := core.Filter(c.expenses, c.categoryFilter, c.monthFilter)
	breakdown := core.Breakdown(filtered)

	return View{
		Expenses:        append([]core.Expense(nil), c.expenses...),
		Filtered:        filtered,
		Loading:         c.loading,
		Error:           c.err,
		CategoryFilter:  c.categoryFilter,
		MonthFilter:     c.monthFilter,
		AvailableMonths: core.AvailableMonths(c.expenses),
		Total:           core.Total(filtered),
		Breakdown:       breakdown,
		Segments:        chart.Segments(breakdown),
		FormVisible:     c.formVisible,
	}
}

func (c *Controller) publish(ctx context.Context, id, action string) {
	if c.pub == nil {
		return
	}
	var err error
	switch action {
	case "created":
		err = c.pub.ExpenseCreated(ctx, id)
	case "deleted":
		err = c.pub.ExpenseDeleted(ctx, id)
	}
	if err != nil {
		c.logger.Warn("Failed to publish expense event", "error", err, "id", id, "action", action)
	}
}

func opError(prefix string, err error) string {
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = "unknown error occurred"
	}
	return prefix + ": " + msg
}
