package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository stores visitor requests in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a request repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

const insertSQL = `INSERT INTO visitor_requests
	(id, requested_by, visitor_name, contact, visit_date, purpose, status, admin_comment, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, requested_by, visitor_name, contact, visit_date, purpose, status, admin_comment, timestamp`

// Insert implements Store.
func (r *Repository) Insert(ctx context.Context, requestedBy string, d Draft) (string, error) {
	rec := NewRecord(requestedBy, d, r.now())
	rec.ID = uuid.NewString()

	if _, err := r.db.ExecContext(ctx, insertSQL,
		rec.ID, rec.RequestedBy, rec.VisitorName, rec.Contact, rec.VisitDate,
		rec.Purpose, rec.Status, rec.AdminComment, rec.Timestamp,
	); err != nil {
		return "", fmt.Errorf("inserting request: %w", err)
	}

	return rec.ID, nil
}

// ListByUser implements Store.
func (r *Repository) ListByUser(ctx context.Context, username string) ([]*VisitorRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM visitor_requests WHERE requested_by = ? ORDER BY rowid", selectColumns)
	reqs, err := r.list(ctx, query, username)
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		req.ID = ""
	}
	return reqs, nil
}

// ListAll implements Store.
func (r *Repository) ListAll(ctx context.Context) ([]*VisitorRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM visitor_requests ORDER BY rowid", selectColumns)
	return r.list(ctx, query)
}

// Get implements Store.
func (r *Repository) Get(ctx context.Context, id string) (*VisitorRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM visitor_requests WHERE id = ?", selectColumns)
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying request %s: %w", id, err)
	}
	return req, nil
}

// UpdateStatus implements Store.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status, comment string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE visitor_requests SET status = ?, admin_comment = ? WHERE id = ?",
		status, comment, id,
	); err != nil {
		return fmt.Errorf("updating request %s: %w", id, err)
	}
	return nil
}

// ResolveStatus implements Store.
func (r *Repository) ResolveStatus(ctx context.Context, id string, from, to Status, comment string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE visitor_requests SET status = ?, admin_comment = ? WHERE id = ? AND status = ?",
		to, comment, id, from,
	)
	if err != nil {
		return fmt.Errorf("resolving request %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolving request %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) (reqs []*VisitorRequest, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requests: %w", err)
	}

	return reqs, nil
}

// scanRequest scans a request from a database row.
func scanRequest(row interface{ Scan(...interface{}) error }) (*VisitorRequest, error) {
	var req VisitorRequest
	err := row.Scan(
		&req.ID, &req.RequestedBy, &req.VisitorName, &req.Contact, &req.VisitDate,
		&req.Purpose, &req.Status, &req.AdminComment, &req.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
