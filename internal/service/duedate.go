package service

import (
	"time"

	"github.com/mzurek/drumtrack/internal/model"
)

const isoDate = "2006-01-02"

// EffectiveDueDate resolves when a drum must be back: the due date
// the upstream export computed, or issue date plus the company's
// return window when the export left it empty. Returns "" when
// neither date is usable.
func EffectiveDueDate(d model.Drum, periodDays int) string {
	if d.DataZwrotu != "" {
		return d.DataZwrotu
	}
	issued, err := time.Parse(isoDate, d.DataWydania)
	if err != nil {
		return ""
	}
	return issued.AddDate(0, 0, periodDays).Format(isoDate)
}

// IsOverdue reports whether a due date lies strictly before today.
// An unparsable or empty due date is never overdue; the import keeps
// such values rather than guessing.
func IsOverdue(dueDate string, now time.Time) bool {
	due, err := time.Parse(isoDate, dueDate)
	if err != nil {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return due.Before(today)
}

// NewDrumView decorates a drum with its effective due date and
// overdue flag for listing responses.
func NewDrumView(d model.Drum, periodDays int, now time.Time) model.DrumView {
	due := EffectiveDueDate(d, periodDays)
	return model.DrumView{
		Drum:    d,
		DueDate: due,
		Overdue: IsOverdue(due, now),
	}
}
