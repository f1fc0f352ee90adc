package repository

import (
	"context"
	"database/sql"

	"github.com/mzurek/drumtrack/internal/model"
)

// ReturnPeriodRepo stores per-company overrides of the default return
// window. At most one row exists per NIP; absence means the default
// applies, so the table is effectively a map from NIP to an optional
// day count.
type ReturnPeriodRepo struct{ DB *sql.DB }

func NewReturnPeriodRepo(db *sql.DB) *ReturnPeriodRepo { return &ReturnPeriodRepo{DB: db} }

// Get returns the override for a NIP, or sql.ErrNoRows when the
// company runs on the default window.
func (r *ReturnPeriodRepo) Get(ctx context.Context, nip string) (model.ReturnPeriod, error) {
	var p model.ReturnPeriod
	err := r.DB.QueryRowContext(ctx,
		"SELECT nip, days, updated_at FROM return_periods WHERE nip=? LIMIT 1",
		nip).Scan(&p.NIP, &p.Days, &p.UpdatedAt)
	return p, err
}

// DaysFor resolves the effective return window for a NIP, falling
// back to the default when no override exists.
func (r *ReturnPeriodRepo) DaysFor(ctx context.Context, nip string) (int, error) {
	p, err := r.Get(ctx, nip)
	if err == sql.ErrNoRows {
		return model.DefaultReturnDays, nil
	}
	if err != nil {
		return 0, err
	}
	return p.Days, nil
}

// All returns every override keyed by NIP, for bulk due-date
// computation over the whole inventory.
func (r *ReturnPeriodRepo) All(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT nip, days FROM return_periods")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var nip string
		var days int
		if err := rows.Scan(&nip, &days); err != nil {
			return nil, err
		}
		out[nip] = days
	}
	return out, rows.Err()
}

// Upsert sets the override for a NIP, replacing an existing row.
func (r *ReturnPeriodRepo) Upsert(ctx context.Context, nip string, days int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO return_periods (nip, days) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE days=VALUES(days)`,
		nip, days)
	return err
}

// Delete removes the override; the company reverts to the default.
func (r *ReturnPeriodRepo) Delete(ctx context.Context, nip string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM return_periods WHERE nip=?", nip)
	return err
}
