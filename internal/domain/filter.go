package domain

import (
	"fmt"
	"time"
)

type Filter string

const (
	FilterToday  Filter = "today"
	FilterFuture Filter = "future"
	FilterAll    Filter = "all"
)

func NewFilter(f string) (Filter, error) {
	switch f {
	case string(FilterToday), string(FilterFuture), string(FilterAll):
		return Filter(f), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFilter, f)
	}
}

// ShouldInclude classifies due against now using now's location as the
// viewer's calendar:
//   - today: same calendar day as now
//   - future: strictly after now and not on now's calendar day
//   - all: always
func (f Filter) ShouldInclude(due, now time.Time) bool {
	inToday := SameDay(due, now)

	switch f {
	case FilterToday:
		return inToday
	case FilterFuture:
		return due.After(now) && !inToday
	case FilterAll:
		return true
	default:
		return false
	}
}

// SameDay reports whether t falls on ref's calendar day in ref's location.
func SameDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()

	return ty == ry && tm == rm && td == rd
}
