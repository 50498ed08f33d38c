package repository

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func (r *Repository) GetAvailabilityByUser(userID int64) ([]domain.AvailabilitySlot, error) {
	query := `
		SELECT id, day_of_week, start_time::text, end_time::text, is_recurring
		FROM availability
		WHERE user_id = $1
		ORDER BY day_of_week, start_time
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []domain.AvailabilitySlot{}
	for rows.Next() {
		slot := domain.AvailabilitySlot{UserID: userID}
		dst := []any{
			&slot.ID,
			&slot.DayOfWeek,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsRecurring,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// ReplaceAvailability swaps a user's recurring availability wholesale inside
// one transaction: delete everything, insert the new canonical slot list.
func (r *Repository) ReplaceAvailability(userID int64, slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM availability WHERE user_id = $1 AND is_recurring = TRUE
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, userID); err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO availability (user_id, day_of_week, start_time, end_time, is_recurring)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	saved := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		params := []any{userID, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.IsRecurring}
		if err := tx.QueryRowContext(ctx, insertQuery, params...).Scan(&slot.ID); err != nil {
			return nil, err
		}
		slot.UserID = userID
		saved = append(saved, slot)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return saved, nil
}
