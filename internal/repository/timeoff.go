package repository

import (
	"database/sql"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const timeOffColumns = `id, user_id, request_type, start_date, end_date, reason, status, reviewed_by, created_at, version`

func scanTimeOff(row interface{ Scan(...any) error }) (*domain.TimeOffRequest, error) {
	var req domain.TimeOffRequest
	var reviewedBy sql.NullInt64
	dst := []any{
		&req.ID,
		&req.UserID,
		&req.Type,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.Status,
		&reviewedBy,
		&req.CreatedAt,
		&req.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.Int64
	}
	return &req, nil
}

func (r *Repository) CreateTimeOffRequest(req *domain.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (user_id, request_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{req.UserID, req.Type, req.StartDate, req.EndDate, req.Reason, req.Status}
	dst := []any{&req.ID, &req.CreatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTimeOffRequestByID(id int64) (*domain.TimeOffRequest, error) {
	query := `
		SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanTimeOff(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetTimeOffRequestsByUser(userID int64) ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryTimeOff(query, userID)
}

func (r *Repository) GetPendingTimeOffRequests() ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE status = $1
		ORDER BY created_at
	`
	return r.queryTimeOff(query, domain.TimeOffPending)
}

func (r *Repository) GetAllTimeOffRequests() ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT ` + timeOffColumns + `
		FROM time_off_requests
		ORDER BY created_at DESC
	`
	return r.queryTimeOff(query)
}

// GetApprovedTimeOffInRange returns approved requests overlapping [from, to],
// used by the schedule generator to keep people off the roster.
func (r *Repository) GetApprovedTimeOffInRange(from, to string) ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE status = $1 AND start_date <= $3::date AND end_date >= $2::date
	`
	return r.queryTimeOff(query, domain.TimeOffApproved, from, to)
}

func (r *Repository) queryTimeOff(query string, args ...any) ([]*domain.TimeOffRequest, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []*domain.TimeOffRequest{}
	for rows.Next() {
		req, err := scanTimeOff(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) UpdateTimeOffRequest(req *domain.TimeOffRequest) error {
	query := `
		UPDATE time_off_requests
		SET status = $1, reviewed_by = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{req.Status, req.ReviewedBy, req.ID, req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&req.Version); err != nil {
		return err
	}

	return nil
}
