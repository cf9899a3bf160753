package storage

import (
	"context"
	"database/sql"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

const reviewColumns = `id, item_id, user_id, author_name, avatar, text, rating, date, created_at, updated_at`

func scanReview(sc rowScanner) (*models.Review, error) {
	var r models.Review
	var userID sql.NullString
	err := sc.Scan(&r.ID, &r.ItemID, &userID, &r.User, &r.Avatar, &r.Text, &r.Rating, &r.Date,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		r.UserID = userID.String
	}
	return &r, nil
}

func (s *Store) queryReviews(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// ListReviewsByItem returns an item's reviews, newest first
func (s *Store) ListReviewsByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	return s.queryReviews(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE item_id = ? ORDER BY created_at DESC, id DESC`, itemID)
}

// ListReviewsByCategory returns reviews of all items in a category, newest first
func (s *Store) ListReviewsByCategory(ctx context.Context, category models.Category) ([]models.Review, error) {
	return s.queryReviews(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE item_id IN (SELECT id FROM items WHERE category_type = ?)
		ORDER BY created_at DESC, id DESC
	`, category)
}

// ListReviewableItems returns ended items the user paid for or checked in
// to and has not reviewed yet.
func (s *Store) ListReviewableItems(ctx context.Context, userID string) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE status = ?
			AND id IN (SELECT item_id FROM applications WHERE user_id = ? AND status IN (?, ?))
			AND id NOT IN (SELECT item_id FROM reviews WHERE user_id = ?)
		ORDER BY created_at DESC, id DESC
	`, models.ItemEnded, userID, models.StatusPaid, models.StatusCheckedIn, userID)
}

// GetReview returns a review by ID
func (s *Store) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// CreateReview stores a review written by author. The item must be one of
// the author's reviewable items.
func (s *Store) CreateReview(ctx context.Context, author *models.User, req *models.ReviewCreate) (*models.Review, error) {
	reviewable, err := s.ListReviewableItems(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, item := range reviewable {
		if item.ID == req.ItemID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.New(apperr.FailedPrecondition, "item is not reviewable")
	}

	now := s.now()
	r := &models.Review{
		ItemID:    req.ItemID,
		UserID:    author.ID,
		User:      author.Name,
		Avatar:    author.Avatar,
		Text:      req.Text,
		Rating:    req.Rating,
		Date:      models.ReviewDate(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (item_id, user_id, author_name, avatar, text, rating, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ItemID, r.UserID, r.User, r.Avatar, r.Text, r.Rating, r.Date, r.CreatedAt, r.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.Conflict, "item is already reviewed", err)
	}
	if err != nil {
		return nil, err
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReview edits a review. Non-admin edits are limited to the edit
// window after creation.
func (s *Store) UpdateReview(ctx context.Context, id int64, update *models.ReviewUpdate, isAdmin bool) (*models.Review, error) {
	r, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.New(apperr.NotFound, "review not found")
	}
	now := s.now()
	if !isAdmin && now.Sub(r.CreatedAt) > models.ReviewEditWindow {
		return nil, apperr.New(apperr.FailedPrecondition, "리뷰 작성 후 24시간이 지나 수정할 수 없습니다.")
	}

	if update.Text != nil {
		r.Text = *update.Text
	}
	if update.Rating != nil {
		r.Rating = *update.Rating
	}
	if msg := models.ValidateReview(r.Text, r.Rating); msg != "" {
		return nil, apperr.New(apperr.InvalidArgument, msg)
	}
	r.UpdatedAt = now

	if _, err := s.db.ExecContext(ctx, `UPDATE reviews SET text = ?, rating = ?, updated_at = ? WHERE id = ?`,
		r.Text, r.Rating, r.UpdatedAt, id); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview removes a review
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "review not found")
	}
	return nil
}
