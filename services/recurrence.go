package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"alarmclock/models"
)

var weekdays = map[string]rrule.Weekday{
	"Mon": rrule.MO,
	"Tue": rrule.TU,
	"Wed": rrule.WE,
	"Thu": rrule.TH,
	"Fri": rrule.FR,
	"Sat": rrule.SA,
	"Sun": rrule.SU,
}

// AlarmRule builds the recurrence of an alarm in loc: weekly on its days,
// or daily when no days are set.
func AlarmRule(alarm models.Alarm, from time.Time, loc *time.Location) (*rrule.RRule, error) {
	clock, err := time.Parse("15:04", alarm.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid alarm time %q: %w", alarm.Time, err)
	}
	if loc == nil {
		loc = time.Local
	}

	local := from.In(loc)
	opt := rrule.ROption{
		Freq:     rrule.DAILY,
		Dtstart:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
		Byhour:   []int{clock.Hour()},
		Byminute: []int{clock.Minute()},
		Bysecond: []int{0},
	}
	if len(alarm.Days) > 0 {
		opt.Freq = rrule.WEEKLY
		for _, d := range alarm.Days {
			wd, ok := weekdays[d]
			if !ok {
				return nil, fmt.Errorf("invalid weekday %q", d)
			}
			opt.Byweekday = append(opt.Byweekday, wd)
		}
	}
	return rrule.NewRRule(opt)
}

// NextOccurrence returns when alarm next rings strictly after the given
// time, or nil for an inactive alarm.
func NextOccurrence(alarm models.Alarm, after time.Time, loc *time.Location) (*time.Time, error) {
	if !alarm.IsActive {
		return nil, nil
	}
	rule, err := AlarmRule(alarm, after, loc)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}
