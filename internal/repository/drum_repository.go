package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mzurek/drumtrack/internal/model"
)

// DrumRepo owns the drums table. End users never touch rows
// individually: the table is rebuilt wholesale by the daily bulk
// import, and everything else is read-only listing.
type DrumRepo struct{ DB *sql.DB }

func NewDrumRepo(db *sql.DB) *DrumRepo { return &DrumRepo{DB: db} }

// importLockName is the MySQL advisory lock serializing inventory
// replacements. Two concurrent imports interleaving their delete and
// insert phases would corrupt or double the inventory, so the second
// caller is rejected instead of waiting.
const importLockName = "drumtrack.inventory_import"

// insertBatchSize bounds one multi-row INSERT during replacement.
const insertBatchSize = 1000

// ReplaceAll deletes every drum row and inserts the given records in
// sequential fixed-size batches, all on one connection holding the
// advisory lock. A failed batch aborts the run; rows inserted by
// earlier batches of the same run remain.
func (r *DrumRepo) ReplaceAll(ctx context.Context, drums []model.Drum) error {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", importLockName).Scan(&got); err != nil {
		return err
	}
	if !got.Valid || got.Int64 != 1 {
		return ErrImportBusy
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "DO RELEASE_LOCK(?)", importLockName)
	}()

	if _, err := conn.ExecContext(ctx, "DELETE FROM drums"); err != nil {
		return err
	}
	for start := 0; start < len(drums); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(drums) {
			end = len(drums)
		}
		if err := insertBatch(ctx, conn, drums[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// insertBatch inserts one slice of drums in a single multi-values
// statement.
func insertBatch(ctx context.Context, conn *sql.Conn, drums []model.Drum) error {
	if len(drums) == 0 {
		return nil
	}
	query := `INSERT INTO drums
		(kod_bebna, nip, nazwa, cecha, kon_dostawca, data_wydania,
		 data_zwrotu_do_dostawcy, typ_dok, nr_dokumentupz, status, extra) VALUES `
	args := make([]interface{}, 0, len(drums)*11)
	for i, d := range drums {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?,?,?,?)"
		var extra interface{}
		if len(d.Extra) > 0 {
			b, err := json.Marshal(d.Extra)
			if err != nil {
				return err
			}
			extra = string(b)
		}
		args = append(args, d.KodBebna, d.NIP, d.Nazwa, d.Cecha, d.KonDostawca,
			d.DataWydania, d.DataZwrotu, d.TypDok, d.NrDokumentuPZ, d.Status, extra)
	}
	_, err := conn.ExecContext(ctx, query, args...)
	return err
}

const drumCols = `id, kod_bebna, COALESCE(nip,''), nazwa, cecha, kon_dostawca,
	data_wydania, data_zwrotu_do_dostawcy, typ_dok, nr_dokumentupz, status, COALESCE(extra,'')`

func scanDrum(rows *sql.Rows) (model.Drum, error) {
	var d model.Drum
	var extra string
	err := rows.Scan(&d.ID, &d.KodBebna, &d.NIP, &d.Nazwa, &d.Cecha, &d.KonDostawca,
		&d.DataWydania, &d.DataZwrotu, &d.TypDok, &d.NrDokumentuPZ, &d.Status, &extra)
	if err != nil {
		return model.Drum{}, err
	}
	if extra != "" {
		if jsonErr := json.Unmarshal([]byte(extra), &d.Extra); jsonErr != nil {
			d.Extra = nil
		}
	}
	return d, nil
}

// ListByNIP returns the drums currently on loan to one company.
func (r *DrumRepo) ListByNIP(ctx context.Context, nip string) ([]model.Drum, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT " + drumCols + " FROM drums WHERE nip=? ORDER BY kod_bebna", nip)
	if err != nil {
		return nil, err
	}
	return collectDrums(rows)
}

// ListAll returns the whole inventory ordered by company then code.
func (r *DrumRepo) ListAll(ctx context.Context) ([]model.Drum, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT " + drumCols + " FROM drums ORDER BY nip, kod_bebna")
	if err != nil {
		return nil, err
	}
	return collectDrums(rows)
}

func collectDrums(rows *sql.Rows) ([]model.Drum, error) {
	defer rows.Close()
	var out []model.Drum
	for rows.Next() {
		d, err := scanDrum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Count reports the current inventory size.
func (r *DrumRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM drums").Scan(&n)
	return n, err
}
