package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzurek/drumtrack/internal/model"
)

type fakeReplacer struct {
	got   []model.Drum
	calls int
	err   error
}

func (f *fakeReplacer) ReplaceAll(_ context.Context, drums []model.Drum) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.got = drums
	return nil
}

func TestImportRun(t *testing.T) {
	repl := &fakeReplacer{}
	svc := NewImportService(repl)

	raw := "kod_bebna,nip,data_zwrotu_do_dostawcy\n" +
		"B-001,1234567890,05.03.2024\n" +
		"B-002,9876543210\n"

	res, err := svc.Run(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 1, Skipped: 1}, res)
	require.Len(t, repl.got, 1)
	assert.Equal(t, "B-001", repl.got[0].KodBebna)
	assert.Equal(t, "2024-03-05", repl.got[0].DataZwrotu)
}

func TestImportRunNoValidRowsTouchesNothing(t *testing.T) {
	repl := &fakeReplacer{}
	svc := NewImportService(repl)

	_, err := svc.Run(context.Background(), "kod_bebna,nip\n,123\n")
	require.Error(t, err)
	assert.Zero(t, repl.calls, "store untouched when parsing fails")
}

func TestImportRunStoreFailureSurfaces(t *testing.T) {
	repl := &fakeReplacer{err: errors.New("lock held")}
	svc := NewImportService(repl)

	_, err := svc.Run(context.Background(), "kod_bebna,nip\nB-1,1234567890\n")
	assert.ErrorIs(t, err, repl.err)
}
