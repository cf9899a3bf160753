package storage

import (
	"context"
	"time"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

func insertUserNotification(ctx context.Context, db execer, userID, title, message string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_notifications (user_id, title, message, is_read, created_at) VALUES (?, ?, ?, 0, ?)
	`, userID, title, message, at)
	return err
}

// Notify sends a message to one user
func (s *Store) Notify(ctx context.Context, userID, title, message string) error {
	return insertUserNotification(ctx, s.db, userID, title, message, s.now())
}

// ListUnreadNotifications returns a user's unread messages, newest first
func (s *Store) ListUnreadNotifications(ctx context.Context, userID string) ([]models.UserNotification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, is_read, created_at
		FROM user_notifications WHERE user_id = ? AND is_read = 0
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserNotification{}
	for rows.Next() {
		var n models.UserNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks one of the user's messages as read
func (s *Store) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "notification not found")
	}
	return nil
}
