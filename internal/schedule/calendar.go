package schedule

import (
	"time"

	"github.com/mfigueroa/sitework/internal/domain"
)

const dateLayout = "2006-01-02"

// Calendar answers working-day questions for one project: a mode plus the
// project's holiday set. The zero value behaves as calendar-day mode with no
// holidays.
type Calendar struct {
	Mode     domain.CalendarMode
	holidays map[string]bool
}

// NewCalendar builds a Calendar from a mode and a list of holiday dates.
func NewCalendar(mode domain.CalendarMode, holidays []time.Time) Calendar {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h.Format(dateLayout)] = true
	}
	return Calendar{Mode: mode, holidays: set}
}

// IsWorkingDay reports whether d is neither a weekend day nor a holiday.
// Only meaningful in business-day mode; calendar mode treats every day as
// working via the mode checks in Advance/CountDays.
func (c Calendar) IsWorkingDay(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return false
	}
	return !c.holidays[d.Format(dateLayout)]
}

// NextWorkingDay snaps d forward to the next working day in business-day
// mode. Calendar mode returns d unchanged.
func (c Calendar) NextWorkingDay(d time.Time) time.Time {
	if c.Mode != domain.BusinessDays {
		return d
	}
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Advance moves d forward by n days: plain calendar days in calendar mode,
// working days in business-day mode. n <= 0 returns d unchanged.
func (c Calendar) Advance(d time.Time, n int) time.Time {
	if n <= 0 {
		return d
	}
	if c.Mode != domain.BusinessDays {
		return d.AddDate(0, 0, n)
	}
	consumed := 0
	for consumed < n {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			consumed++
		}
	}
	return d
}

// CountDays returns the inclusive day count of [start, end]: calendar days in
// calendar mode, working days by linear scan in business-day mode.
func (c Calendar) CountDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	if c.Mode != domain.BusinessDays {
		return int(end.Sub(start).Hours()/24) + 1
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
