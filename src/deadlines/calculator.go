package deadlines

import (
	"fmt"
	"time"
)

const (
	NoDeadlineText = "No Deadline Defined"
	overduePrefix  = "Overdue since "

	// DisplayLayout is used for deadline timestamps shown to users.
	DisplayLayout = "Mon Jan 2 2006 15:04 MST"
)

// NextDeadline returns the first occurrence of the schedule strictly after now.
// Weekday and slot are read as wall-clock values in the reference zone; a
// candidate equal to now counts as already past. Rollover adds calendar days,
// so the local time of day survives a daylight-saving change.
func NextDeadline(s Schedule, reference *time.Location, now time.Time) (time.Time, bool) {
	if !s.HasDeadline() {
		return time.Time{}, false
	}

	local := now.In(reference)
	year, month, day := local.Date()

	offset, period := 0, 1
	if s.kind == kindWeekly {
		offset = (int(s.weekday) - int(WeekdayOf(local.Weekday())) + 7) % 7
		period = 7
	}

	candidate := time.Date(year, month, day+offset, s.slot.hour, s.slot.minute, 0, 0, reference)
	if !candidate.After(now) {
		candidate = time.Date(year, month, day+offset+period, s.slot.hour, s.slot.minute, 0, 0, reference)
	}
	return candidate, true
}

// Localize re-expresses an instant in the target zone using the offset that
// zone has at the instant itself.
func Localize(instant time.Time, zone *time.Location) time.Time {
	return instant.In(zone)
}

// Remaining is negative or zero once the deadline has been reached.
func Remaining(deadlineLocal, nowLocal time.Time) time.Duration {
	return deadlineLocal.Sub(nowLocal)
}

type Countdown struct {
	Text    string
	Overdue bool
	Days    int64
	Hours   int64
	Minutes int64
}

// FormatCountdown floors a positive duration to whole minutes and renders it
// as "{d}d, {h}h, {m}m". Zero or negative durations are overdue and carry the
// localized deadline instead.
func FormatCountdown(remaining time.Duration, deadlineLocal time.Time) Countdown {
	if remaining <= 0 {
		return Countdown{
			Text:    overduePrefix + deadlineLocal.Format(DisplayLayout),
			Overdue: true,
		}
	}

	seconds := int64(remaining / time.Second)
	c := Countdown{
		Days:    seconds / 86400,
		Hours:   seconds % 86400 / 3600,
		Minutes: seconds % 3600 / 60,
	}
	c.Text = fmt.Sprintf("%dd, %dh, %dm", c.Days, c.Hours, c.Minutes)
	return c
}

// Status is what the dashboard shows for one report.
type Status struct {
	HasDeadline bool
	Deadline    time.Time
	Remaining   time.Duration
	Countdown   Countdown
}

func (s Status) Text() string {
	if !s.HasDeadline {
		return NoDeadlineText
	}
	return s.Countdown.Text
}

// Evaluate computes the next deadline in the reference zone and the countdown
// as seen from the display zone.
func Evaluate(s Schedule, reference, display *time.Location, now time.Time) Status {
	next, ok := NextDeadline(s, reference, now)
	if !ok {
		return Status{}
	}

	deadline := Localize(next, display)
	remaining := Remaining(deadline, Localize(now, display))
	return Status{
		HasDeadline: true,
		Deadline:    deadline,
		Remaining:   remaining,
		Countdown:   FormatCountdown(remaining, deadline),
	}
}
