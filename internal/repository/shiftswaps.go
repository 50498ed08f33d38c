package repository

import (
	"database/sql"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const shiftSwapColumns = `id, requester_id, target_id, requester_shift_id, target_shift_id, reason, status, reviewed_by, created_at, version`

func scanShiftSwap(row interface{ Scan(...any) error }) (*domain.ShiftSwap, error) {
	var swap domain.ShiftSwap
	var targetShiftID, reviewedBy sql.NullInt64
	dst := []any{
		&swap.ID,
		&swap.RequesterID,
		&swap.TargetID,
		&swap.RequesterShiftID,
		&targetShiftID,
		&swap.Reason,
		&swap.Status,
		&reviewedBy,
		&swap.CreatedAt,
		&swap.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	if targetShiftID.Valid {
		swap.TargetShiftID = &targetShiftID.Int64
	}
	if reviewedBy.Valid {
		swap.ReviewedBy = &reviewedBy.Int64
	}
	return &swap, nil
}

func (r *Repository) CreateShiftSwap(swap *domain.ShiftSwap) error {
	query := `
		INSERT INTO shift_swaps (requester_id, target_id, requester_shift_id, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{swap.RequesterID, swap.TargetID, swap.RequesterShiftID, swap.Reason, swap.Status}
	dst := []any{&swap.ID, &swap.CreatedAt, &swap.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftSwapByID(id int64) (*domain.ShiftSwap, error) {
	query := `
		SELECT ` + shiftSwapColumns + `
		FROM shift_swaps
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanShiftSwap(r.dbpool.QueryRowContext(ctx, query, id))
}

// GetShiftSwapsByUser returns swaps where the user is either party.
func (r *Repository) GetShiftSwapsByUser(userID int64) ([]*domain.ShiftSwap, error) {
	query := `
		SELECT ` + shiftSwapColumns + `
		FROM shift_swaps
		WHERE requester_id = $1 OR target_id = $1
		ORDER BY created_at DESC
	`
	return r.queryShiftSwaps(query, userID)
}

func (r *Repository) GetShiftSwapsByStatus(status domain.SwapStatus) ([]*domain.ShiftSwap, error) {
	query := `
		SELECT ` + shiftSwapColumns + `
		FROM shift_swaps
		WHERE status = $1
		ORDER BY created_at
	`
	return r.queryShiftSwaps(query, status)
}

func (r *Repository) GetAllShiftSwaps() ([]*domain.ShiftSwap, error) {
	query := `
		SELECT ` + shiftSwapColumns + `
		FROM shift_swaps
		ORDER BY created_at DESC
	`
	return r.queryShiftSwaps(query)
}

func (r *Repository) queryShiftSwaps(query string, args ...any) ([]*domain.ShiftSwap, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swaps := []*domain.ShiftSwap{}
	for rows.Next() {
		swap, err := scanShiftSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return swaps, nil
}

func (r *Repository) UpdateShiftSwap(swap *domain.ShiftSwap) error {
	query := `
		UPDATE shift_swaps
		SET target_shift_id = $1, status = $2, reviewed_by = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{swap.TargetShiftID, swap.Status, swap.ReviewedBy, swap.ID, swap.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&swap.Version); err != nil {
		return err
	}

	return nil
}
