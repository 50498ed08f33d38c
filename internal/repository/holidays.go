package repository

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func (r *Repository) CreateHoliday(h *domain.Holiday) error {
	query := `
		INSERT INTO holidays (name, holiday_date, is_closed)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{h.Name, h.Date, h.IsClosed}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&h.ID); err != nil {
		return err
	}

	return nil
}

// GetHolidaysInRange returns holidays with dates in [from, to].
func (r *Repository) GetHolidaysInRange(from, to string) ([]*domain.Holiday, error) {
	query := `
		SELECT id, name, holiday_date, is_closed
		FROM holidays
		WHERE holiday_date BETWEEN $1::date AND $2::date
		ORDER BY holiday_date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []*domain.Holiday{}
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.IsClosed); err != nil {
			return nil, err
		}
		holidays = append(holidays, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

func (r *Repository) DeleteHoliday(id int64) error {
	query := `
		DELETE FROM holidays
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
