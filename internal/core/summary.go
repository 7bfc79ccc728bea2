package core

import (
	"fmt"
	"sort"
)

// FilterAll disables a filter dimension.
const FilterAll = "all"

// CategoryShare is a category's slice of the filtered total.
type CategoryShare struct {
	Category Category `json:"category"`
	Total    Money    `json:"total"`
	Percent  float64  `json:"percent"`
}

// MonthKey returns the YYYY-MM grouping key for a date in local time.
func MonthKey(d Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// Filter returns the expenses matching both the category filter (FilterAll
// or a category label) and the month filter (FilterAll or a YYYY-MM key).
// It is a pure function of its inputs and never mutates the slice.
func Filter(expenses []Expense, categoryFilter, monthFilter string) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if categoryFilter != FilterAll && string(e.Category) != categoryFilter {
			continue
		}
		if monthFilter != FilterAll && MonthKey(e.Date) != monthFilter {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AvailableMonths returns the distinct month keys present across all
// expenses, most recent first. The result does not depend on input order.
func AvailableMonths(expenses []Expense) []string {
	seen := map[string]struct{}{}
	var months []string
	for _, e := range expenses {
		key := MonthKey(e.Date)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Total sums the amounts of the given expenses. Empty input sums to zero.
func Total(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// Breakdown groups the expenses by category, sums each group and computes
// its percentage of the overall total. Groups come back sorted by summed
// amount descending; ties keep first-encountered category order. A zero
// total yields an empty breakdown.
func Breakdown(expenses []Expense) []CategoryShare {
	total := Total(expenses)
	if total.Cents == 0 {
		return nil
	}

	sums := map[Category]int64{}
	var order []Category
	for _, e := range expenses {
		if _, ok := sums[e.Category]; !ok {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, c := range order {
		shares = append(shares, CategoryShare{
			Category: c,
			Total:    Money{Cents: sums[c]},
			Percent:  float64(sums[c]) / float64(total.Cents) * 100,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.Cents > shares[j].Total.Cents
	})
	return shares
}
