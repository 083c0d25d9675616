package services

import (
	"strings"
	"time"
)

// SlotLayout is the wire format of a time slot: wall-clock, minute precision, no zone.
const SlotLayout = "2006-01-02T15:04"

var slotLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// OpeningWindow is the business-hours span of one calendar day.
type OpeningWindow struct {
	Open  time.Time
	Close time.Time
}

// OpeningHours -> Mon–Thu 17:00–22:00, Fri–Sat 17:00–23:00, Sun 11:00–15:00
func OpeningHours(day time.Time) OpeningWindow {
	at := func(hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	}
	switch day.Weekday() {
	case time.Sunday:
		return OpeningWindow{Open: at(11), Close: at(15)}
	case time.Friday, time.Saturday:
		return OpeningWindow{Open: at(17), Close: at(23)}
	default:
		return OpeningWindow{Open: at(17), Close: at(22)}
	}
}

// ParseTimeSlot reads a wall-clock slot. The value is taken as-is; no zone
// conversion happens and the result carries the UTC location only so that
// comparisons and storage are consistent.
func ParseTimeSlot(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, newValidationError(CodeMissingField, "Missing required field: timeSlot")
	}
	for _, layout := range slotLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newValidationError(CodeInvalidTimeSlot, "Invalid timeSlot format. Use ISO like 2026-01-20T19:30")
}

// FormatSlot renders t in SlotLayout.
func FormatSlot(t time.Time) string {
	return t.Format(SlotLayout)
}

// ValidateSlot accepts start only if it sits on the slot grid and the whole
// reservation window [start, start+Duration] fits inside that day's hours.
func ValidateSlot(start time.Time, cfg BookingConfig) error {
	if !onGrid(start, cfg.SlotGranularity) {
		return newValidationError(CodeOffGrid, "Reservations start every %d minutes (e.g. 19:00 or 19:30).", int(cfg.SlotGranularity/time.Minute))
	}

	hours := OpeningHours(start)
	if start.Before(hours.Open) {
		return newValidationError(CodeBeforeOpening, "The restaurant opens at %s on %s.", hours.Open.Format("15:04"), start.Weekday())
	}
	if start.Add(cfg.Duration).After(hours.Close) {
		return newValidationError(CodeAfterClosing, "Reservations must end by closing time (%s on %s).", hours.Close.Format("15:04"), start.Weekday())
	}
	return nil
}

// SlotsForDate lists every valid start time on the given day, in order.
func SlotsForDate(day time.Time, cfg BookingConfig) []time.Time {
	hours := OpeningHours(day)
	lastStart := hours.Close.Add(-cfg.Duration)

	var slots []time.Time
	for t := hours.Open; !t.After(lastStart); t = t.Add(cfg.SlotGranularity) {
		slots = append(slots, t)
	}
	return slots
}

func onGrid(t time.Time, granularity time.Duration) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	step := int(granularity / time.Minute)
	return step > 0 && minutes%step == 0
}
