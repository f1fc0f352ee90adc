package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mzurek/drumtrack/internal/model"
)

func TestPriorityFor(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	inventory := []model.Drum{
		{KodBebna: "B-OLD", DataZwrotu: "2026-01-01"},  // long overdue
		{KodBebna: "B-OK", DataZwrotu: "2026-12-31"},   // well within window
		{KodBebna: "B-CALC", DataWydania: "2026-01-01"}, // due date computed
	}
	days := 85 // B-CALC due 2026-03-27, overdue

	t.Run("overdue selection is HIGH", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-OLD"}, now)
		assert.Equal(t, model.RequestPriorityHigh, p)
	})

	t.Run("computed due date counts too", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-CALC"}, now)
		assert.Equal(t, model.RequestPriorityHigh, p)
	})

	t.Run("one overdue among many is enough", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-OK", "B-OLD"}, now)
		assert.Equal(t, model.RequestPriorityHigh, p)
	})

	t.Run("nothing overdue is NORMAL", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-OK"}, now)
		assert.Equal(t, model.RequestPriorityNormal, p)
	})

	t.Run("unknown codes never escalate", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-GHOST"}, now)
		assert.Equal(t, model.RequestPriorityNormal, p)
	})

	t.Run("overdue inventory not selected stays NORMAL", func(t *testing.T) {
		p := priorityFor(inventory, days, []string{"B-OK", "B-GHOST"}, now)
		assert.Equal(t, model.RequestPriorityNormal, p)
	})
}
