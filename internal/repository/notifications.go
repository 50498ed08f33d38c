package repository

import (
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

const notificationColumns = `id, user_id, title, message, notification_type, is_read, link, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*domain.Notification, error) {
	var n domain.Notification
	dst := []any{
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.IsRead,
		&n.Link,
		&n.CreatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) CreateNotification(n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, notification_type, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{n.UserID, n.Title, n.Message, n.Type, n.Link}
	dst := []any{&n.ID, &n.IsRead, &n.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetNotificationByID(id int64) (*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanNotification(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetNotificationsByUser(userID int64) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *Repository) CountUnreadNotifications(userID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) MarkNotificationRead(id int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) MarkAllNotificationsRead(userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, userID)
	return err
}
