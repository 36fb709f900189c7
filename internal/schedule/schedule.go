package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/coucou-beaute/booking-api/internal/model"
)

// weekdayCodes maps time.Weekday onto the three-letter codes stored in a
// professional's schedule configuration.
var weekdayCodes = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// WeekdayCode returns the three-letter code for a weekday.
func WeekdayCode(d time.Weekday) string {
	return weekdayCodes[d]
}

// Defaults is the fallback schedule substituted when a professional has no
// configuration or a malformed one. Injected through configuration so tests
// can override it.
type Defaults struct {
	OpenDays   []string
	DayStart   string
	DayEnd     string
	SlotLength time.Duration
}

// FallbackDefaults returns the platform-wide fallback: weekdays, 09:00-18:00,
// 60-minute slots.
func FallbackDefaults() Defaults {
	return Defaults{
		OpenDays:   []string{"mon", "tue", "wed", "thu", "fri"},
		DayStart:   "09:00",
		DayEnd:     "18:00",
		SlotLength: time.Hour,
	}
}

// Window is an open clock-time range [StartMin, EndMin) in minutes since
// midnight.
type Window struct {
	StartMin int
	EndMin   int
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ValidClock reports whether s is a well-formed "HH:MM" clock string.
func ValidClock(s string) bool {
	_, ok := parseClock(s)
	return ok
}

// fallbackWindow is derived from the defaults; a malformed default still
// yields a sane window rather than an error.
func fallbackWindow(defs Defaults) Window {
	start, ok := parseClock(defs.DayStart)
	if !ok {
		start = 9 * 60
	}
	end, ok := parseClock(defs.DayEnd)
	if !ok || end <= start {
		end = start + 9*60
	}
	return Window{StartMin: start, EndMin: end}
}

// ResolveWindow determines whether the date is an open day for the given
// configuration and, if so, the open clock-time window. A nil configuration
// means the professional never saved one and the fallback applies in full.
// A configuration with an explicitly empty open-days set closes every date.
// Malformed clock strings and non-positive windows are absorbed by the
// fallback window, never surfaced.
//
// The date must already be expressed in the venue's civil calendar; no
// timezone conversion is applied to the weekday determination.
func ResolveWindow(cfg *model.ScheduleConfig, date time.Time, defs Defaults) (Window, bool) {
	openDays := defs.OpenDays
	startLabel := defs.DayStart
	endLabel := defs.DayEnd
	if cfg != nil {
		openDays = normalizeDays(cfg.OpenDays)
		if cfg.HoursStart != "" {
			startLabel = cfg.HoursStart
		}
		if cfg.HoursEnd != "" {
			endLabel = cfg.HoursEnd
		}
	}

	code := weekdayCodes[date.Weekday()]
	if !containsDay(openDays, code) {
		return Window{}, false
	}

	start, okStart := parseClock(startLabel)
	end, okEnd := parseClock(endLabel)
	if !okStart || !okEnd || end <= start {
		return fallbackWindow(defs), true
	}
	return Window{StartMin: start, EndMin: end}, true
}

func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) > 3 {
			d = d[:3]
		}
		out = append(out, d)
	}
	return out
}

func containsDay(days []string, code string) bool {
	for _, d := range days {
		if d == code {
			return true
		}
	}
	return false
}

// Slots partitions the open window into fixed-length candidate slots anchored
// to the date's midnight in loc. Slots are contiguous, ordered and
// non-overlapping; the final slot is clamped to the window end, so it may be
// shorter than slotLen.
func Slots(date time.Time, w Window, slotLen time.Duration, loc *time.Location) []Interval {
	if loc == nil {
		loc = time.UTC
	}
	if slotLen <= 0 || w.EndMin <= w.StartMin {
		return nil
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	step := int(slotLen / time.Minute)

	var slots []Interval
	for cur := w.StartMin; cur < w.EndMin; cur += step {
		end := cur + step
		if end > w.EndMin {
			end = w.EndMin
		}
		slots = append(slots, Interval{
			Start: midnight.Add(time.Duration(cur) * time.Minute),
			End:   midnight.Add(time.Duration(end) * time.Minute),
		})
	}
	return slots
}

// Classify scans the professional's same-day appointments and classifies the
// candidate slot. Cancelled and completed appointments never block a slot.
// A confirmed overlap wins over any simultaneously overlapping pending one.
func Classify(slot Interval, existing []*model.Appointment) model.SlotStatus {
	status := model.SlotAvailable
	for _, apt := range existing {
		if apt.Status != model.AppointmentStatusConfirmed && apt.Status != model.AppointmentStatusPending {
			continue
		}
		if !slot.Overlaps(Interval{Start: apt.StartTime, End: apt.EndTime}) {
			continue
		}
		if apt.Status == model.AppointmentStatusConfirmed {
			return model.SlotConfirmed
		}
		status = model.SlotPending
	}
	return status
}

// DaySlots runs the full pipeline: resolve the open window for the date,
// generate candidate slots and classify each against the existing
// appointments. Returns nil for closed dates.
func DaySlots(cfg *model.ScheduleConfig, date time.Time, existing []*model.Appointment, defs Defaults, loc *time.Location) []model.Slot {
	window, open := ResolveWindow(cfg, date, defs)
	if !open {
		return nil
	}

	intervals := Slots(date, window, defs.SlotLength, loc)
	out := make([]model.Slot, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, model.Slot{
			Start:  iv.Start,
			End:    iv.End,
			Status: Classify(iv, existing),
		})
	}
	return out
}
