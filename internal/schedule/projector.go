package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// brt is the canonical civil timezone for the whole deployment. Every
// instance resolves "today" and "now" in it, independent of host locale.
var brt = time.FixedZone("BRT", -3*60*60)

// Location returns the canonical timezone used for occurrence projection.
func Location() *time.Location {
	return brt
}

// Activity is a weekly recurrence template as seen by the projector.
type Activity struct {
	ID        string
	Title     string
	Weekday   string
	StartHour string
	EndHour   string
}

// Occurrence is the next concrete instance of an activity, computed on
// demand and never persisted.
type Occurrence struct {
	Activity Activity
	Start    time.Time
}

// ErrUnknownWeekday indicates a weekday label outside the supported set.
var ErrUnknownWeekday = errors.New("schedule: unknown weekday label")

// ErrInvalidClock indicates a time-of-day string that is not strict HH:MM.
var ErrInvalidClock = errors.New("schedule: invalid HH:MM time")

var weekdayIndex = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday maps a weekday label to its Go weekday. Labels are matched
// exactly; there is no fuzzy or case-insensitive handling.
func ParseWeekday(label string) (time.Weekday, error) {
	day, ok := weekdayIndex[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, label)
	}
	return day, nil
}

// ParseClock parses a strict two-digit HH:MM 24-hour wall-clock string.
func ParseClock(value string) (hour, minute int, err error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
		}
	}
	hour = int(value[0]-'0')*10 + int(value[1]-'0')
	minute = int(value[3]-'0')*10 + int(value[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return hour, minute, nil
}

// NextOccurrence computes the next concrete start instant for the activity
// at or after now, resolved in the canonical timezone.
//
// A slot whose start coincides exactly with now still counts as upcoming;
// a slot earlier today rolls forward seven days. Every weekly template has
// a next occurrence, so the only failures are malformed weekday or clock
// values, which the write path rejects before they can reach storage.
func NextOccurrence(activity Activity, now time.Time) (time.Time, error) {
	target, err := ParseWeekday(activity.Weekday)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(activity.StartHour)
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(brt)
	diff := (int(target) - int(local.Weekday()) + 7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day()+diff, hour, minute, 0, 0, brt)
	if diff == 0 && candidate.Before(local) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate, nil
}

// ProjectUpcoming computes the next occurrence of every activity and returns
// the soonest limit entries in ascending start order. No template is ever
// discarded; ties keep the input (store) order.
func ProjectUpcoming(activities []Activity, now time.Time, limit int) ([]Occurrence, error) {
	if limit < 0 {
		limit = 0
	}

	occurrences := make([]Occurrence, 0, len(activities))
	for _, activity := range activities {
		start, err := NextOccurrence(activity, now)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, Occurrence{Activity: activity, Start: start})
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start.Before(occurrences[j].Start)
	})

	if len(occurrences) > limit {
		occurrences = occurrences[:limit]
	}
	return occurrences, nil
}
