package date

import (
	"iter"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
//
// Unlike a map, a History can hold several values for the same day: they are
// kept in insertion order, and the last one inserted is the one that reflects
// the state at the end of that day.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value and false.
func (h *History[T]) Latest() (day Date, value T, ok bool) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value, false
	}
	return h.days[last], h.values[last], true
}

// upper returns the index of the first day strictly after 'day'.
func (h *History[T]) upper(day Date) int {
	return sort.Search(len(h.days), func(i int) bool { return h.days[i].After(day) })
}

// Append inserts a point in the history, after every point on or before 'on'.
//
// The history remains sorted, and points on the same day keep their insertion order.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i := h.upper(on)
	h.days = append(h.days, Date{})
	h.values = append(h.values, v)
	copy(h.days[i+1:], h.days[i:])
	copy(h.values[i+1:], h.values[i:])
	h.days[i], h.values[i] = on, v
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	// days is sorted, 'upper' is the insertion point so the value we want is right before.
	i := h.upper(day)
	if i == 0 {
		var zero T
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Get returns the last value recorded exactly on 'day' and true, or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	i := h.upper(day)
	if i == 0 || h.days[i-1] != day {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}
