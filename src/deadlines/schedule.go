package deadlines

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnsupportedCadence = errors.New("unsupported cadence")
	ErrUnknownCadence     = errors.New("unknown cadence")
	ErrInvalidWeekday     = errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidTimeSlot    = errors.New("time slot must fall on :00 or :30")
)

type Cadence string

const (
	CadenceDaily   Cadence = "Daily"
	CadenceWeekly  Cadence = "Weekly"
	CadenceMonthly Cadence = "Monthly"
)

// ParseCadence accepts the stored cadence names case-insensitively.
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return CadenceDaily, nil
	case "weekly":
		return CadenceWeekly, nil
	case "monthly":
		return CadenceMonthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCadence, s)
}

// Weekday counts from Monday=0 to Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func NewWeekday(day int) (Weekday, error) {
	if day < 0 || day > 6 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidWeekday, day)
	}
	return Weekday(day), nil
}

func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

func (w Weekday) String() string {
	return w.Time().String()
}

// TimeSlot is a time of day on a half-hour mark: 48 values per day.
type TimeSlot struct {
	hour   int
	minute int
}

func NewTimeSlot(hour, minute int) (TimeSlot, error) {
	if hour < 0 || hour > 23 {
		return TimeSlot{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidTimeSlot, hour)
	}
	if minute != 0 && minute != 30 {
		return TimeSlot{}, fmt.Errorf("%w: got minute %d", ErrInvalidTimeSlot, minute)
	}
	return TimeSlot{hour: hour, minute: minute}, nil
}

// ParseTimeSlot reads "HH:MM" or "HH:MM:SS" and nothing else. The hour may
// have one or two digits, minutes and seconds exactly two, and seconds must
// be zero.
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeSlot{}, fmt.Errorf("%w: malformed time %q", ErrInvalidTimeSlot, s)
	}

	hour, ok := parseClockField(parts[0], 1)
	if !ok {
		return TimeSlot{}, fmt.Errorf("%w: malformed hour in %q", ErrInvalidTimeSlot, s)
	}
	minute, ok := parseClockField(parts[1], 2)
	if !ok {
		return TimeSlot{}, fmt.Errorf("%w: malformed minute in %q", ErrInvalidTimeSlot, s)
	}
	if len(parts) == 3 {
		second, ok := parseClockField(parts[2], 2)
		if !ok {
			return TimeSlot{}, fmt.Errorf("%w: malformed second in %q", ErrInvalidTimeSlot, s)
		}
		if second != 0 {
			return TimeSlot{}, fmt.Errorf("%w: seconds must be zero in %q", ErrInvalidTimeSlot, s)
		}
	}
	return NewTimeSlot(hour, minute)
}

// parseClockField accepts minDigits to two ASCII digits.
func parseClockField(field string, minDigits int) (int, bool) {
	if len(field) < minDigits || len(field) > 2 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (t TimeSlot) Hour() int   { return t.hour }
func (t TimeSlot) Minute() int { return t.minute }

// String renders the slot the way it is stored: "HH:MM:SS".
func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d:00", t.hour, t.minute)
}

// TimeSlots lists every valid slot of a day in order.
func TimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, 48)
	for h := 0; h < 24; h++ {
		slots = append(slots, TimeSlot{hour: h}, TimeSlot{hour: h, minute: 30})
	}
	return slots
}

type scheduleKind int

const (
	kindNone scheduleKind = iota
	kindDaily
	kindWeekly
)

// Schedule is the deadline rule of a report. The zero value has no deadline.
// Values are built with Daily, Weekly, NoDeadline or NewSchedule so that an
// inconsistent combination such as a weekly rule without a weekday cannot
// reach the calculator.
type Schedule struct {
	kind    scheduleKind
	weekday Weekday
	slot    TimeSlot
}

func NoDeadline() Schedule {
	return Schedule{}
}

func Daily(slot TimeSlot) Schedule {
	return Schedule{kind: kindDaily, slot: slot}
}

func Weekly(day Weekday, slot TimeSlot) Schedule {
	return Schedule{kind: kindWeekly, weekday: day, slot: slot}
}

// NewSchedule builds a schedule from stored report fields. A missing slot, or a
// weekly cadence without a weekday, gives NoDeadline rather than an error.
// Monthly has no computation rule and is rejected.
func NewSchedule(cadence Cadence, weekday *int, slot *TimeSlot) (Schedule, error) {
	switch cadence {
	case CadenceDaily, CadenceWeekly:
	case CadenceMonthly:
		return Schedule{}, fmt.Errorf("%w: %s", ErrUnsupportedCadence, cadence)
	default:
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownCadence, cadence)
	}

	var day Weekday
	if weekday != nil {
		var err error
		if day, err = NewWeekday(*weekday); err != nil {
			return Schedule{}, err
		}
	}

	if slot == nil {
		return NoDeadline(), nil
	}
	if cadence == CadenceDaily {
		return Daily(*slot), nil
	}
	if weekday == nil {
		return NoDeadline(), nil
	}
	return Weekly(day, *slot), nil
}

func (s Schedule) HasDeadline() bool {
	return s.kind != kindNone
}

func (s Schedule) Cadence() (Cadence, bool) {
	switch s.kind {
	case kindDaily:
		return CadenceDaily, true
	case kindWeekly:
		return CadenceWeekly, true
	}
	return "", false
}

func (s Schedule) Weekday() (Weekday, bool) {
	return s.weekday, s.kind == kindWeekly
}

func (s Schedule) Slot() (TimeSlot, bool) {
	return s.slot, s.kind != kindNone
}

func (s Schedule) String() string {
	switch s.kind {
	case kindDaily:
		return fmt.Sprintf("daily at %s", s.slot)
	case kindWeekly:
		return fmt.Sprintf("every %s at %s", s.weekday, s.slot)
	}
	return "no deadline"
}
