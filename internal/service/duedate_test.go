package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mzurek/drumtrack/internal/model"
)

func TestEffectiveDueDate(t *testing.T) {
	// Export-provided due date wins over any computation.
	d := model.Drum{DataWydania: "2026-01-01", DataZwrotu: "2026-02-15"}
	assert.Equal(t, "2026-02-15", EffectiveDueDate(d, 85))

	// Missing due date falls back to issue date plus the window.
	d = model.Drum{DataWydania: "2026-01-01"}
	assert.Equal(t, "2026-03-27", EffectiveDueDate(d, 85))

	d = model.Drum{DataWydania: "2026-01-01"}
	assert.Equal(t, "2026-01-31", EffectiveDueDate(d, 30))

	// Neither date usable.
	assert.Equal(t, "", EffectiveDueDate(model.Drum{}, 85))
	assert.Equal(t, "", EffectiveDueDate(model.Drum{DataWydania: "Brak"}, 85))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	assert.True(t, IsOverdue("2026-08-30", now))
	assert.False(t, IsOverdue("2026-08-31", now), "due today is not yet overdue")
	assert.False(t, IsOverdue("2026-09-01", now))
	assert.False(t, IsOverdue("", now))
	assert.False(t, IsOverdue("30.08.2026", now), "unconverted dates never flag")
}

func TestNewDrumView(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	d := model.Drum{KodBebna: "B-1", DataWydania: "2026-01-01"}

	v := NewDrumView(d, 85, now)
	assert.Equal(t, "2026-03-27", v.DueDate)
	assert.True(t, v.Overdue)

	v = NewDrumView(model.Drum{KodBebna: "B-2", DataZwrotu: "2026-12-31"}, 85, now)
	assert.Equal(t, "2026-12-31", v.DueDate)
	assert.False(t, v.Overdue)
}
