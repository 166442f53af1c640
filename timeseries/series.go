package timeseries

import (
	"iter"
	"slices"
)

// Series stores a chronological series of observations, each keyed by a
// date. Dates are unique and the series is always sorted; on a duplicate
// date the last value written wins. Lookups by date are O(1): the values
// live in a map, the sorted date slice only carries the order.
type Series struct {
	days []Date
	vals map[Date]float64
}

// Len returns the number of observations in the series.
func (s *Series) Len() int { return len(s.days) }

// Put adds an observation to the series.
//
// An existing value at that date is overwritten: the record supplied last
// wins.
func (s *Series) Put(on Date, v float64) *Series {
	if s.vals == nil {
		s.vals = make(map[Date]float64)
	}
	if _, ok := s.vals[on]; !ok {
		i, _ := slices.BinarySearchFunc(s.days, on, Date.Compare)
		s.days = slices.Insert(s.days, i, on)
	}
	s.vals[on] = v
	return s
}

// Get returns the value at 'day' and true, or zero and false.
func (s *Series) Get(day Date) (float64, bool) {
	v, ok := s.vals[day]
	return v, ok
}

// AsOf returns the observation on the given day, or the most recent one
// before it, along with the date it was actually observed on. It never
// returns a value observed after 'day'.
func (s *Series) AsOf(day Date) (on Date, v float64, ok bool) {
	i, found := slices.BinarySearchFunc(s.days, day, Date.Compare)
	if found {
		return s.days[i], s.vals[s.days[i]], true
	}
	// i is the insertion index; the entry before it is the last one prior
	// to the target date.
	if i == 0 {
		return Date{}, 0, false
	}
	on = s.days[i-1]
	return on, s.vals[on], true
}

// First returns the earliest date and value in the series.
func (s *Series) First() (Date, float64) {
	if len(s.days) == 0 {
		return Date{}, 0
	}
	return s.days[0], s.vals[s.days[0]]
}

// Last returns the latest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) Last() (Date, float64) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return s.days[last], s.vals[s.days[last]]
}

// Values returns an iterator over all date/value pairs, in chronological
// order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for _, on := range s.days {
			if !yield(on, s.vals[on]) {
				return
			}
		}
	}
}

// Dates returns a copy of the sorted dates carried by the series.
func (s *Series) Dates() []Date { return slices.Clone(s.days) }

// Merge folds every observation of 'incoming' into the series. On a date
// collision the incoming record wins. It returns the number of observations
// applied.
func (s *Series) Merge(incoming *Series) int {
	n := 0
	for day, v := range incoming.Values() {
		s.Put(day, v)
		n++
	}
	return n
}

// Union returns the sorted union of the dates of all given series. It is
// the shared row axis when several series are laid out as a table.
func Union(series ...*Series) []Date {
	var all []Date
	for _, s := range series {
		if s == nil {
			continue
		}
		all = append(all, s.days...)
	}
	slices.SortFunc(all, Date.Compare)
	return slices.Compact(all)
}
