package service

import (
	"context"

	"github.com/mzurek/drumtrack/internal/importer"
	"github.com/mzurek/drumtrack/internal/model"
)

// DrumReplacer swaps the whole drum inventory for a new set of rows.
type DrumReplacer interface {
	ReplaceAll(ctx context.Context, drums []model.Drum) error
}

// ImportResult summarizes one bulk import run.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportService ingests a full-inventory CSV snapshot. The upstream
// source of truth is an external daily export with no notion of
// incremental updates, so every run replaces the table.
type ImportService struct {
	Drums DrumReplacer
}

func NewImportService(drums DrumReplacer) *ImportService {
	return &ImportService{Drums: drums}
}

// Run parses and validates the entire document first; side effects
// begin only once that succeeds. Malformed or incomplete rows reduce
// the yield without aborting the run, as long as at least one valid
// record exists. Store failures abort and surface verbatim.
func (s *ImportService) Run(ctx context.Context, raw string) (ImportResult, error) {
	rows, skipped, err := importer.Parse(raw)
	if err != nil {
		return ImportResult{Skipped: skipped}, err
	}
	drums := make([]model.Drum, 0, len(rows))
	for _, row := range rows {
		drums = append(drums, importer.ToDrum(row))
	}
	if err := s.Drums.ReplaceAll(ctx, drums); err != nil {
		return ImportResult{Skipped: skipped}, err
	}
	return ImportResult{Imported: len(drums), Skipped: skipped}, nil
}
