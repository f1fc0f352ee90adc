package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mzurek/drumtrack/internal/model"
)

// ReturnRequestRepo persists client pickup requests. Drum codes are
// stored as an opaque JSON list with no foreign keys, since the
// inventory they point into is rebuilt every day. Requests move
// strictly forward through PENDING -> APPROVED -> COMPLETED and are
// never deleted.
type ReturnRequestRepo struct{ DB *sql.DB }

func NewReturnRequestRepo(db *sql.DB) *ReturnRequestRepo { return &ReturnRequestRepo{DB: db} }

const requestCols = `id, nip, drum_codes, street, postal_code, city, contact_person,
	contact_phone, preferred_date, notes, status, priority, created_at, updated_at`

func scanRequest(rows interface{ Scan(...any) error }) (model.ReturnRequest, error) {
	var rr model.ReturnRequest
	var codes string
	err := rows.Scan(&rr.ID, &rr.NIP, &codes, &rr.Street, &rr.PostalCode, &rr.City,
		&rr.ContactPerson, &rr.ContactPhone, &rr.PreferredDate, &rr.Notes,
		&rr.Status, &rr.Priority, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		return model.ReturnRequest{}, err
	}
	if jsonErr := json.Unmarshal([]byte(codes), &rr.DrumCodes); jsonErr != nil {
		rr.DrumCodes = nil
	}
	return rr, nil
}

// Create inserts a request and populates its generated ID and
// timestamps on the provided record.
func (r *ReturnRequestRepo) Create(ctx context.Context, rr *model.ReturnRequest) error {
	codes, err := json.Marshal(rr.DrumCodes)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO return_requests
		 (nip, drum_codes, street, postal_code, city, contact_person,
		  contact_phone, preferred_date, notes, status, priority)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rr.NIP, string(codes), rr.Street, rr.PostalCode, rr.City, rr.ContactPerson,
		rr.ContactPhone, rr.PreferredDate, rr.Notes, rr.Status, rr.Priority)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rr.ID = uint64(id)
	row := r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM return_requests WHERE id=?", rr.ID)
	return row.Scan(&rr.CreatedAt, &rr.UpdatedAt)
}

// Get fetches one request by id.
func (r *ReturnRequestRepo) Get(ctx context.Context, id uint64) (model.ReturnRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+requestCols+" FROM return_requests WHERE id=? LIMIT 1", id)
	return scanRequest(row)
}

// ListByNIP returns a company's requests, newest first.
func (r *ReturnRequestRepo) ListByNIP(ctx context.Context, nip string) ([]model.ReturnRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+requestCols+" FROM return_requests WHERE nip=? ORDER BY created_at DESC", nip)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// List returns all requests, optionally filtered by status, newest
// first. High-priority requests sort before normal ones within the
// same status so overdue pickups surface at the top of the admin
// queue.
func (r *ReturnRequestRepo) List(ctx context.Context, status string) ([]model.ReturnRequest, error) {
	q := "SELECT " + requestCols + " FROM return_requests"
	var args []interface{}
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY priority='HIGH' DESC, created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]model.ReturnRequest, error) {
	defer rows.Close()
	var out []model.ReturnRequest
	for rows.Next() {
		rr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// UpdateStatus moves a request from one status to another. The
// compare-and-set WHERE clause makes illegal or raced transitions
// fail with ErrConflict instead of clobbering state.
func (r *ReturnRequestRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE return_requests SET status=? WHERE id=? AND status=?",
		to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or its status moved underneath us.
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM return_requests WHERE id=? LIMIT 1", id).Scan(&one); scanErr != nil {
			return scanErr
		}
		return ErrConflict
	}
	return nil
}

// CountByStatus reports how many requests sit in a given status.
func (r *ReturnRequestRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM return_requests WHERE status=?", status).Scan(&n)
	return n, err
}
