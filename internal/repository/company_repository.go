package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mzurek/drumtrack/internal/model"
)

// CompanyRepo provides CRUD access to the companies table. Companies
// are keyed by NIP; deleting one cascades to its credential record,
// return period and setup token, while drums keep their rows with the
// NIP reference nulled.
type CompanyRepo struct{ DB *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{DB: db} }

const companyCols = "nip, name, email, phone, address, last_activity_at, created_at"

func scanCompany(row interface{ Scan(...any) error }) (model.Company, error) {
	var c model.Company
	var lastAct sql.NullTime
	err := row.Scan(&c.NIP, &c.Name, &c.Email, &c.Phone, &c.Address, &lastAct, &c.CreatedAt)
	if lastAct.Valid {
		t := lastAct.Time
		c.LastActivityAt = &t
	}
	return c, err
}

// GetByNIP fetches one company.
func (r *CompanyRepo) GetByNIP(ctx context.Context, nip string) (model.Company, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT " + companyCols + " FROM companies WHERE nip=? LIMIT 1", nip)
	return scanCompany(row)
}

// List returns all companies ordered by name.
func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT " + companyCols + " FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a new company. A duplicate NIP maps to ErrNIPExists.
func (r *CompanyRepo) Create(ctx context.Context, c model.Company) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO companies (nip, name, email, phone, address) VALUES (?,?,?,?,?)",
		c.NIP, c.Name, c.Email, c.Phone, c.Address)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrNIPExists
	}
	return err
}

// Update rewrites the mutable company attributes.
func (r *CompanyRepo) Update(ctx context.Context, c model.Company) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE companies SET name=?, email=?, phone=?, address=? WHERE nip=?",
		c.Name, c.Email, c.Phone, c.Address, c.NIP)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// Distinguish "no such company" from "update was a no-op".
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM companies WHERE nip=? LIMIT 1", c.NIP).Scan(&one); scanErr != nil {
			return scanErr
		}
	}
	return err
}

// Delete removes a company. Foreign keys cascade credentials, tokens
// and return-period overrides. Drums reference companies weakly (no
// FK, since the import may carry NIPs not yet provisioned), so their
// owner column is nulled here explicitly.
func (r *CompanyRepo) Delete(ctx context.Context, nip string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM companies WHERE nip=?", nip)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, "UPDATE drums SET nip=NULL WHERE nip=?", nip); err != nil {
		return err
	}
	return tx.Commit()
}

// Count reports the number of provisioned companies.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&n)
	return n, err
}

// TouchActivity bumps last_activity_at. Best-effort bookkeeping: the
// caller ignores the error.
func (r *CompanyRepo) TouchActivity(ctx context.Context, nip string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE companies SET last_activity_at=? WHERE nip=?", at.UTC(), nip)
	return err
}
