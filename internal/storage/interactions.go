package storage

import (
	"context"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/progress"
)

func (s *Store) itemIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListLikes returns the IDs of items a user liked
func (s *Store) ListLikes(ctx context.Context, userID string) ([]int64, error) {
	return s.itemIDs(ctx, `SELECT item_id FROM user_likes WHERE user_id = ? ORDER BY id`, userID)
}

// ToggleLike likes an item, or unlikes it if already liked, and returns the
// user's resulting liked item IDs.
func (s *Store) ToggleLike(ctx context.Context, userID string, itemID int64) ([]int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_likes WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO user_likes (user_id, item_id, created_at) VALUES (?, ?, ?)
		`, userID, itemID, s.now())
		if err != nil {
			return nil, err
		}
	}
	return s.ListLikes(ctx, userID)
}

// ListUnlocks returns the IDs of crew reports a user unlocked
func (s *Store) ListUnlocks(ctx context.Context, userID string) ([]int64, error) {
	return s.itemIDs(ctx, `SELECT item_id FROM user_unlocks WHERE user_id = ? ORDER BY id`, userID)
}

// HasUnlocked reports whether a user unlocked an item's report
func (s *Store) HasUnlocked(ctx context.Context, userID string, itemID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_unlocks WHERE user_id = ? AND item_id = ?`, userID, itemID).Scan(&n)
	return n > 0, err
}

// Unlock records that a user unlocked an item's report
func (s *Store) Unlock(ctx context.Context, userID string, itemID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_unlocks (user_id, item_id, created_at) VALUES (?, ?, ?)
	`, userID, itemID, s.now())
	if isUniqueViolation(err) {
		return apperr.New(apperr.Conflict, "report is already unlocked")
	}
	return err
}

// ListApplies returns the IDs of items a user applied to
func (s *Store) ListApplies(ctx context.Context, userID string) ([]int64, error) {
	return s.itemIDs(ctx, `SELECT item_id FROM applications WHERE user_id = ? ORDER BY id`, userID)
}

// Activity counts the interactions that earn a user XP
func (s *Store) Activity(ctx context.Context, userID string) (progress.Activity, error) {
	var a progress.Activity
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM user_likes WHERE user_id = ?),
			(SELECT COUNT(*) FROM applications WHERE user_id = ?),
			(SELECT COUNT(*) FROM user_unlocks WHERE user_id = ?),
			(SELECT COUNT(*) FROM reviews WHERE user_id = ?)
	`, userID, userID, userID, userID).Scan(&a.Likes, &a.Applies, &a.Unlocks, &a.Reviews)
	return a, err
}
