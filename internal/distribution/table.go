// Package distribution converts empirical frequency tables into
// cumulative-probability-indexed lookup structures and performs
// inverse-transform sampling against them.
package distribution

import (
	"math"
	"strings"
)

// Category identifies one of the four ABO blood groups.
type Category string

const (
	CategoryA  Category = "A"
	CategoryB  Category = "B"
	CategoryAB Category = "AB"
	CategoryO  Category = "O"
)

// Categories lists the blood groups in their fixed sampling order.
var Categories = []Category{CategoryA, CategoryB, CategoryAB, CategoryO}

// ParseCategory maps a user-supplied group name to a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryA:
		return CategoryA, true
	case CategoryB:
		return CategoryB, true
	case CategoryAB:
		return CategoryAB, true
	case CategoryO:
		return CategoryO, true
	}
	return "", false
}

// ClassRow is one class of an empirical frequency distribution, as
// delivered by the ingestion layer. Rows are ordered by ascending
// cumulative probability; the last row's CumulativePct rounds to 100.
type ClassRow struct {
	Sequence      int     `json:"no"`
	IntervalLabel string  `json:"class_interval"`
	Frequency     int     `json:"frequency"`
	Probability   float64 `json:"probability"`
	Cumulative    float64 `json:"cumulative_probability"`
	CumulativePct float64 `json:"cumulative_probability_pct"`
}

// Entry maps one class to its representative demand value and its slice
// of the random-number range [0,99].
type Entry struct {
	Interval       Interval `json:"interval"`
	HasInterval    bool     `json:"has_interval"`
	Representative int      `json:"representative"`
	RangeLow       int      `json:"range_low"`
	RangeHigh      int      `json:"range_high"`
}

// Contains reports whether the entry's random range covers the draw.
func (e Entry) Contains(draw int) bool {
	return e.RangeLow <= draw && draw <= e.RangeHigh
}

// Table is an ordered partition of [0,99] into one contiguous sub-range
// per class. It is built once per blood group and read-only afterwards.
type Table struct {
	Entries []Entry `json:"entries"`
}

// Build derives the lookup table from cleaned class rows, in input order.
// The representative value is the rounded-up midpoint of the class
// interval, or 0 when the label cannot be parsed. Range bounds follow the
// cumulative percentages: the first range starts at 0, each next one at
// the previous upper bound plus one, and each upper bound is the
// cumulative percentage under banker's rounding, clamped at 99.
//
// Contiguity holds by construction. If the cumulative percentages never
// reach 100 the tail of [0,99] stays uncovered and those draws sample to
// zero; Covers exposes that condition, the builder does not repair it.
func Build(rows []ClassRow) *Table {
	entries := make([]Entry, 0, len(rows))
	low := 0
	for _, row := range rows {
		e := Entry{RangeLow: low}
		if iv, ok := ParseInterval(CleanLabel(row.IntervalLabel)); ok {
			e.Interval = iv
			e.HasInterval = true
			e.Representative = (iv.Low + iv.High + 1) / 2
		}
		high := int(math.RoundToEven(row.CumulativePct))
		if high > 99 {
			high = 99
		}
		e.RangeHigh = high
		entries = append(entries, e)
		low = high + 1
	}
	return &Table{Entries: entries}
}

// Sample maps a uniform draw in [0,99] to the representative value of the
// class whose range contains it. A nil table (missing blood group) and an
// uncovered draw both yield 0 so partial data degrades instead of failing.
// The scan is linear; class counts stay in the single digits.
func (t *Table) Sample(draw int) int {
	if t == nil {
		return 0
	}
	for _, e := range t.Entries {
		if e.Contains(draw) {
			return e.Representative
		}
	}
	return 0
}

// Covers reports whether the table partitions the full [0,99] range.
func (t *Table) Covers() bool {
	if t == nil || len(t.Entries) == 0 {
		return false
	}
	return t.Entries[0].RangeLow == 0 && t.Entries[len(t.Entries)-1].RangeHigh == 99
}
