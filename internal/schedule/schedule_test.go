package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coucou-beaute/booking-api/internal/model"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func apt(start, end time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{StartTime: start, EndTime: end, Status: status}
}

func at(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: at(monday, 10, 0), End: at(monday, 11, 0)}

	assert.True(t, a.Overlaps(Interval{Start: at(monday, 10, 30), End: at(monday, 11, 30)}))
	assert.True(t, a.Overlaps(Interval{Start: at(monday, 9, 0), End: at(monday, 12, 0)}))
	// Touching endpoints do not conflict.
	assert.False(t, a.Overlaps(Interval{Start: at(monday, 11, 0), End: at(monday, 12, 0)}))
	assert.False(t, a.Overlaps(Interval{Start: at(monday, 9, 0), End: at(monday, 10, 0)}))
}

func TestResolveWindow(t *testing.T) {
	defs := FallbackDefaults()

	t.Run("nil config falls back to weekdays", func(t *testing.T) {
		w, open := ResolveWindow(nil, monday, defs)
		require.True(t, open)
		assert.Equal(t, Window{StartMin: 9 * 60, EndMin: 18 * 60}, w)

		saturday := monday.AddDate(0, 0, 5)
		_, open = ResolveWindow(nil, saturday, defs)
		assert.False(t, open)
	})

	t.Run("configured window", func(t *testing.T) {
		cfg := &model.ScheduleConfig{
			OpenDays:   []string{"mon", "sat"},
			HoursStart: "10:00",
			HoursEnd:   "16:30",
		}
		w, open := ResolveWindow(cfg, monday, defs)
		require.True(t, open)
		assert.Equal(t, Window{StartMin: 10 * 60, EndMin: 16*60 + 30}, w)

		saturday := monday.AddDate(0, 0, 5)
		_, open = ResolveWindow(cfg, saturday, defs)
		assert.True(t, open)

		tuesday := monday.AddDate(0, 0, 1)
		_, open = ResolveWindow(cfg, tuesday, defs)
		assert.False(t, open)
	})

	t.Run("empty open days closes every date", func(t *testing.T) {
		cfg := &model.ScheduleConfig{OpenDays: []string{}, HoursStart: "09:00", HoursEnd: "18:00"}
		for i := 0; i < 7; i++ {
			_, open := ResolveWindow(cfg, monday.AddDate(0, 0, i), defs)
			assert.False(t, open)
		}
	})

	t.Run("malformed hours substitute fallback window", func(t *testing.T) {
		cfg := &model.ScheduleConfig{OpenDays: []string{"mon"}, HoursStart: "late", HoursEnd: "nope"}
		w, open := ResolveWindow(cfg, monday, defs)
		require.True(t, open)
		assert.Equal(t, Window{StartMin: 9 * 60, EndMin: 18 * 60}, w)
	})

	t.Run("non-positive window substitutes fallback window", func(t *testing.T) {
		cfg := &model.ScheduleConfig{OpenDays: []string{"mon"}, HoursStart: "18:00", HoursEnd: "09:00"}
		w, open := ResolveWindow(cfg, monday, defs)
		require.True(t, open)
		assert.Equal(t, Window{StartMin: 9 * 60, EndMin: 18 * 60}, w)
	})

	t.Run("long day names are truncated", func(t *testing.T) {
		cfg := &model.ScheduleConfig{OpenDays: []string{"Monday", "tuesday"}, HoursStart: "09:00", HoursEnd: "12:00"}
		_, open := ResolveWindow(cfg, monday, defs)
		assert.True(t, open)
	})
}

func TestSlotsCoverWindowExactly(t *testing.T) {
	w := Window{StartMin: 9 * 60, EndMin: 18 * 60}
	slots := Slots(monday, w, time.Hour, time.UTC)

	require.Len(t, slots, 9)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday, 18, 0), slots[len(slots)-1].End)

	var covered time.Duration
	for i, s := range slots {
		covered += s.Duration()
		if i > 0 {
			// Contiguous and ordered.
			assert.Equal(t, slots[i-1].End, s.Start)
		}
	}
	assert.Equal(t, 9*time.Hour, covered)
}

func TestSlotsClampFinalSlot(t *testing.T) {
	w := Window{StartMin: 9 * 60, EndMin: 10*60 + 30}
	slots := Slots(monday, w, time.Hour, time.UTC)

	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 10, 0), slots[1].Start)
	assert.Equal(t, at(monday, 10, 30), slots[1].End)
}

func TestClassifyPrecedence(t *testing.T) {
	slot := Interval{Start: at(monday, 10, 0), End: at(monday, 11, 0)}

	confirmed := apt(at(monday, 10, 30), at(monday, 11, 30), model.AppointmentStatusConfirmed)
	pending := apt(at(monday, 9, 30), at(monday, 10, 30), model.AppointmentStatusPending)

	// A confirmed overlap wins regardless of ordering in the scan.
	assert.Equal(t, model.SlotConfirmed, Classify(slot, []*model.Appointment{pending, confirmed}))
	assert.Equal(t, model.SlotConfirmed, Classify(slot, []*model.Appointment{confirmed, pending}))
	assert.Equal(t, model.SlotPending, Classify(slot, []*model.Appointment{pending}))
	assert.Equal(t, model.SlotAvailable, Classify(slot, nil))
}

func TestClassifyIgnoresTerminalStatuses(t *testing.T) {
	slot := Interval{Start: at(monday, 10, 0), End: at(monday, 11, 0)}
	existing := []*model.Appointment{
		apt(at(monday, 10, 0), at(monday, 11, 0), model.AppointmentStatusCancelled),
		apt(at(monday, 10, 0), at(monday, 11, 0), model.AppointmentStatusCompleted),
	}
	assert.Equal(t, model.SlotAvailable, Classify(slot, existing))
}

func TestClassifyTouchingEndpointIsAvailable(t *testing.T) {
	slot := Interval{Start: at(monday, 10, 0), End: at(monday, 11, 0)}
	existing := []*model.Appointment{
		apt(at(monday, 11, 0), at(monday, 12, 0), model.AppointmentStatusConfirmed),
		apt(at(monday, 9, 0), at(monday, 10, 0), model.AppointmentStatusConfirmed),
	}
	assert.Equal(t, model.SlotAvailable, Classify(slot, existing))
}

func TestClassifyIsIdempotent(t *testing.T) {
	slot := Interval{Start: at(monday, 10, 0), End: at(monday, 11, 0)}
	existing := []*model.Appointment{
		apt(at(monday, 10, 30), at(monday, 11, 30), model.AppointmentStatusPending),
	}
	first := Classify(slot, existing)
	second := Classify(slot, existing)
	assert.Equal(t, first, second)
}

func TestDaySlotsOpenMondayNoAppointments(t *testing.T) {
	slots := DaySlots(nil, monday, nil, FallbackDefaults(), time.UTC)

	require.Len(t, slots, 9)
	for i, s := range slots {
		assert.Equal(t, model.SlotAvailable, s.Status)
		assert.Equal(t, at(monday, 9+i, 0), s.Start)
		assert.Equal(t, at(monday, 10+i, 0), s.End)
	}
}

func TestDaySlotsWithConfirmedAppointment(t *testing.T) {
	existing := []*model.Appointment{
		apt(at(monday, 10, 0), at(monday, 11, 0), model.AppointmentStatusConfirmed),
	}
	slots := DaySlots(nil, monday, existing, FallbackDefaults(), time.UTC)

	require.Len(t, slots, 9)
	for _, s := range slots {
		if s.Start.Equal(at(monday, 10, 0)) {
			assert.Equal(t, model.SlotConfirmed, s.Status)
		} else {
			assert.Equal(t, model.SlotAvailable, s.Status)
		}
	}
}

func TestDaySlotsClosedSaturday(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	slots := DaySlots(nil, saturday, nil, FallbackDefaults(), time.UTC)
	assert.Empty(t, slots)
}
