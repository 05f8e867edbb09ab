package domain

import "time"

const (
	ShortTimeLayout  = "3:04 PM"
	MediumDateLayout = "Jan 2, 2006"
	LongDateLayout   = "January 2, 2006"
)

// DueText renders a due date the way the list shows it under filter.
func DueText(due, now time.Time, filter Filter) string {
	local := due.In(now.Location())

	switch filter {
	case FilterToday:
		return local.Format(ShortTimeLayout)
	case FilterAll:
		if SameDay(due, now) {
			return "Today at " + local.Format("03:04 PM")
		}

		return futureText(local)
	default:
		return futureText(local)
	}
}

// DayText is "Today" for now's calendar day, the long date otherwise.
func DayText(due, now time.Time) string {
	if SameDay(due, now) {
		return "Today"
	}

	return due.In(now.Location()).Format(LongDateLayout)
}

func TimeText(due, now time.Time) string {
	return due.In(now.Location()).Format(ShortTimeLayout)
}

func futureText(local time.Time) string {
	return local.Format(MediumDateLayout) + " at " + local.Format(ShortTimeLayout)
}
