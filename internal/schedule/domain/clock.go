package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the length of the synthetic day.
	MinutesPerDay = 24 * 60
	// EndOfDay is 23:59, the last minute a slot may occupy.
	EndOfDay TimeOfDay = MinutesPerDay - 1
)

// TimeOfDay is a wall-clock minute (00:00–23:59) with no date component.
type TimeOfDay int

// NewTimeOfDay builds a time of day from hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	text := fmt.Sprintf("%d:%d", hour, minute)
	if hour < 0 || hour > 23 {
		return 0, &FormatError{Text: text, Reason: "hour out of range"}
	}
	if minute < 0 || minute > 59 {
		return 0, &FormatError{Text: text, Reason: "minute out of range"}
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay reads 24h "H:MM" text. Hour and minute accept one or two digits.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	value := strings.TrimSpace(text)
	hourText, minuteText, ok := strings.Cut(value, ":")
	if !ok {
		return 0, &FormatError{Text: text, Reason: "expected HH:MM"}
	}
	hour, err := parseClockField(hourText)
	if err != nil {
		return 0, &FormatError{Text: text, Reason: "invalid hour"}
	}
	minute, err := parseClockField(minuteText)
	if err != nil {
		return 0, &FormatError{Text: text, Reason: "invalid minute"}
	}
	if hour > 23 {
		return 0, &FormatError{Text: text, Reason: "hour out of range"}
	}
	if minute > 59 {
		return 0, &FormatError{Text: text, Reason: "minute out of range"}
	}
	return TimeOfDay(hour*60 + minute), nil
}

func parseClockField(value string) (int, error) {
	if len(value) == 0 || len(value) > 2 {
		return 0, strconv.ErrSyntax
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(value)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// AddHours shifts the time, wrapping past midnight into the next day's clock.
func (t TimeOfDay) AddHours(hours int) TimeOfDay {
	minutes := (int(t) + hours*60) % MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return TimeOfDay(minutes)
}

// DecimalHours returns the time as fractional hours, e.g. 09:30 -> 9.5.
func (t TimeOfDay) DecimalHours() float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// String renders canonical "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
