package repository

import (
	"database/sql"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const scheduleColumns = `id, week_start_date, status, generated_by, notes, created_at, version`

func scanSchedule(row interface{ Scan(...any) error }) (*domain.Schedule, error) {
	var sched domain.Schedule
	var generatedBy sql.NullInt64
	dst := []any{
		&sched.ID,
		&sched.WeekStartDate,
		&sched.Status,
		&generatedBy,
		&sched.Notes,
		&sched.CreatedAt,
		&sched.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	if generatedBy.Valid {
		sched.GeneratedBy = &generatedBy.Int64
	}
	return &sched, nil
}

func (r *Repository) CreateSchedule(sched *domain.Schedule) error {
	query := `
		INSERT INTO schedules (week_start_date, status, generated_by, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{sched.WeekStartDate, sched.Status, sched.GeneratedBy, sched.Notes}
	dst := []any{&sched.ID, &sched.CreatedAt, &sched.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	sched, err := scanSchedule(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	shifts, err := r.GetShiftsBySchedule(sched.ID)
	if err != nil {
		return nil, err
	}
	sched.Shifts = shifts

	return sched, nil
}

func (r *Repository) GetSchedules(status domain.ScheduleStatus) ([]*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE ($1 = '' OR status = $1)
		ORDER BY week_start_date DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []*domain.Schedule{}
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sched := range schedules {
		shifts, err := r.GetShiftsBySchedule(sched.ID)
		if err != nil {
			return nil, err
		}
		sched.Shifts = shifts
	}

	return schedules, nil
}

func (r *Repository) GetLatestPublishedSchedule() (*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE status = $1
		ORDER BY week_start_date DESC
		LIMIT 1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	sched, err := scanSchedule(r.dbpool.QueryRowContext(ctx, query, domain.SchedulePublished))
	if err != nil {
		return nil, err
	}

	shifts, err := r.GetShiftsBySchedule(sched.ID)
	if err != nil {
		return nil, err
	}
	sched.Shifts = shifts

	return sched, nil
}

func (r *Repository) UpdateScheduleStatus(sched *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, sched.Status, sched.ID, sched.Version).Scan(&sched.Version); err != nil {
		return err
	}

	return nil
}

// ArchivePublishedSchedules retires every currently published schedule;
// called when a new one is published so at most one stays published.
func (r *Repository) ArchivePublishedSchedules() error {
	query := `
		UPDATE schedules
		SET status = $1, version = version + 1
		WHERE status = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, domain.ScheduleArchived, domain.SchedulePublished); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSchedule(id int64) error {
	query := `
		DELETE FROM schedules WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

/**********************************************
 * Shifts
 **********************************************/

func (r *Repository) GetShiftsBySchedule(scheduleID int64) ([]domain.Shift, error) {
	query := `
		SELECT id, user_id, location_id, day_of_week, start_time::text, end_time::text, actual_date, status
		FROM shifts
		WHERE schedule_id = $1
		ORDER BY actual_date, start_time
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []domain.Shift{}
	for rows.Next() {
		shift := domain.Shift{ScheduleID: scheduleID}
		dst := []any{
			&shift.ID,
			&shift.UserID,
			&shift.LocationID,
			&shift.DayOfWeek,
			&shift.StartTime,
			&shift.EndTime,
			&shift.ActualDate,
			&shift.Status,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `
		SELECT schedule_id, user_id, location_id, day_of_week, start_time::text, end_time::text, actual_date, status
		FROM shifts
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	shift := &domain.Shift{ID: id}
	dst := []any{
		&shift.ScheduleID,
		&shift.UserID,
		&shift.LocationID,
		&shift.DayOfWeek,
		&shift.StartTime,
		&shift.EndTime,
		&shift.ActualDate,
		&shift.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (schedule_id, user_id, location_id, day_of_week, start_time, end_time, actual_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		shift.ScheduleID,
		shift.UserID,
		shift.LocationID,
		shift.DayOfWeek,
		shift.StartTime,
		shift.EndTime,
		shift.ActualDate,
		shift.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftAssignment(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET user_id = $1, status = $2
		WHERE id = $3
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, shift.UserID, shift.Status, shift.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// SwapShiftUsers exchanges the assignees of two shifts in one transaction;
// with a nil target shift the requester's shift is handed to the target user.
func (r *Repository) SwapShiftUsers(requesterShiftID int64, targetShiftID *int64, targetUserID int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var requesterUserID int64
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM shifts WHERE id = $1`, requesterShiftID).Scan(&requesterUserID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shifts SET user_id = $1, status = $2 WHERE id = $3`,
		targetUserID, domain.ShiftSwapped, requesterShiftID); err != nil {
		return err
	}

	if targetShiftID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE shifts SET user_id = $1, status = $2 WHERE id = $3`,
			requesterUserID, domain.ShiftSwapped, *targetShiftID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
