package date

import "iter"

// Range is an inclusive interval of days.
type Range struct{ From, To Date }

// Ends returns an iterator over the last day of every 'period' overlapping
// the range. The last one is clipped to r.To.
func (r Range) Ends(period Period) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if r.To.Before(r.From) {
			return
		}
		for on := r.From.EndOf(period); ; on = on.Add(1).EndOf(period) {
			if on.After(r.To) {
				yield(r.To)
				return
			}
			if !yield(on) || on == r.To {
				return
			}
		}
	}
}
