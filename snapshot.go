package networth

import (
	"iter"

	"github.com/etnz/networth/date"
)

// Snapshot is the state of a holding at the end of a given day.
//
// Units and cost are running totals, not deltas. All amounts are in the
// holding's currency. A Snapshot is a value: once appended to a Timeline it
// is never modified.
type Snapshot struct {
	on    date.Date
	units Quantity
	cost  Money
	value Money
}

// On returns the day of the snapshot.
func (s Snapshot) On() date.Date { return s.on }

// Units returns the cumulative number of units owned.
func (s Snapshot) Units() Quantity { return s.units }

// Cost returns the total amount invested, fees included.
func (s Snapshot) Cost() Money { return s.cost }

// Value returns the market value on that day.
func (s Snapshot) Value() Money { return s.value }

// Timeline is the chronological series of a holding's snapshots.
type Timeline struct {
	history date.History[Snapshot]
}

// Len returns the number of snapshots.
func (t *Timeline) Len() int { return t.history.Len() }

// insert adds a snapshot in chronological position. Snapshots on the same
// day keep their insertion order.
func (t *Timeline) insert(s Snapshot) { t.history.Append(s.on, s) }

// AsOf returns the latest snapshot on or before 'on'.
func (t *Timeline) AsOf(on date.Date) (Snapshot, bool) { return t.history.ValueAsOf(on) }

// At returns the latest snapshot dated exactly 'on'.
func (t *Timeline) At(on date.Date) (Snapshot, bool) { return t.history.Get(on) }

// Latest returns the chronologically last snapshot.
func (t *Timeline) Latest() (Snapshot, bool) {
	_, s, ok := t.history.Latest()
	return s, ok
}

// Snapshots iterates over snapshots in chronological order.
func (t *Timeline) Snapshots() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for _, s := range t.history.Values() {
			if !yield(s) {
				return
			}
		}
	}
}
