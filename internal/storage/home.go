package storage

import (
	"context"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

// --- Slides ---

// ListSlides returns all slides ordered for display
func (s *Store) ListSlides(ctx context.Context) ([]models.Slide, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, img, sort_order, is_active FROM slides ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slides := []models.Slide{}
	for rows.Next() {
		var sl models.Slide
		if err := rows.Scan(&sl.ID, &sl.Title, &sl.Desc, &sl.Img, &sl.SortOrder, &sl.IsActive); err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

// CreateSlide inserts a slide
func (s *Store) CreateSlide(ctx context.Context, sl *models.Slide) (*models.Slide, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO slides (title, description, img, sort_order, is_active) VALUES (?, ?, ?, ?, ?)
	`, sl.Title, sl.Desc, sl.Img, sl.SortOrder, boolInt(sl.IsActive))
	if err != nil {
		return nil, err
	}
	created := *sl
	created.ID, err = res.LastInsertId()
	return &created, err
}

// UpdateSlide applies a partial update to a slide
func (s *Store) UpdateSlide(ctx context.Context, id int64, u *models.SlideUpdate) error {
	var set updateSet
	if u.Title != nil {
		set.add("title", *u.Title)
	}
	if u.Desc != nil {
		set.add("description", *u.Desc)
	}
	if u.Img != nil {
		set.add("img", *u.Img)
	}
	if u.SortOrder != nil {
		set.add("sort_order", *u.SortOrder)
	}
	if u.IsActive != nil {
		set.add("is_active", boolInt(*u.IsActive))
	}
	if set.empty() {
		return nil
	}
	found, err := set.exec(ctx, s.db, "slides", "id = ?", id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.NotFound, "slide not found")
	}
	return nil
}

// DeleteSlide removes a slide
func (s *Store) DeleteSlide(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "slides", id, "slide not found")
}

// --- Ticker notifications ---

// ListNotifications returns all ticker messages ordered for display
func (s *Store) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, link_url, is_active, sort_order FROM notifications ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.LinkURL, &n.IsActive, &n.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CreateNotification inserts a ticker message
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (message, link_url, is_active, sort_order) VALUES (?, ?, ?, ?)
	`, n.Message, n.LinkURL, boolInt(n.IsActive), n.SortOrder)
	if err != nil {
		return nil, err
	}
	created := *n
	created.ID, err = res.LastInsertId()
	return &created, err
}

// UpdateNotification applies a partial update to a ticker message
func (s *Store) UpdateNotification(ctx context.Context, id int64, u *models.NotificationUpdate) error {
	var set updateSet
	if u.Message != nil {
		set.add("message", *u.Message)
	}
	if u.LinkURL != nil {
		set.add("link_url", *u.LinkURL)
	}
	if u.IsActive != nil {
		set.add("is_active", boolInt(*u.IsActive))
	}
	if u.SortOrder != nil {
		set.add("sort_order", *u.SortOrder)
	}
	if set.empty() {
		return nil
	}
	found, err := set.exec(ctx, s.db, "notifications", "id = ?", id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.NotFound, "notification not found")
	}
	return nil
}

// DeleteNotification removes a ticker message
func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "notifications", id, "notification not found")
}

func (s *Store) deleteByID(ctx context.Context, table string, id int64, notFound string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, notFound)
	}
	return nil
}

// --- Briefings ---

// ListBriefings returns the active briefing lines in order
func (s *Store) ListBriefings(ctx context.Context) ([]models.Briefing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, highlight FROM briefings WHERE is_active = 1 ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Briefing{}
	for rows.Next() {
		var b models.Briefing
		if err := rows.Scan(&b.ID, &b.Text, &b.Highlight); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceBriefings swaps the whole briefing for a new set of lines
func (s *Store) ReplaceBriefings(ctx context.Context, lines []models.Briefing) ([]models.Briefing, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM briefings`); err != nil {
		return nil, err
	}
	out := make([]models.Briefing, 0, len(lines))
	for i, b := range lines {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO briefings (text, highlight, is_active, sort_order) VALUES (?, ?, 1, ?)
		`, b.Text, b.Highlight, i+1)
		if err != nil {
			return nil, err
		}
		b.ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Category design ---

// CategoryHeaders returns the header block of every configured category
func (s *Store) CategoryHeaders(ctx context.Context) (map[string]models.CategoryHeader, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, title, description FROM category_headers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	headers := map[string]models.CategoryHeader{}
	for rows.Next() {
		var category string
		var h models.CategoryHeader
		if err := rows.Scan(&category, &h.Title, &h.Description); err != nil {
			return nil, err
		}
		headers[category] = h
	}
	return headers, rows.Err()
}

// SetCategoryHeader creates or replaces a category header
func (s *Store) SetCategoryHeader(ctx context.Context, category string, h models.CategoryHeader) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_headers (category, title, description) VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET title = excluded.title, description = excluded.description
	`, category, h.Title, h.Description)
	return err
}

// DetailImages returns the long detail image of every configured category
func (s *Store) DetailImages(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, image_url FROM category_detail_images`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := map[string]string{}
	for rows.Next() {
		var category, url string
		if err := rows.Scan(&category, &url); err != nil {
			return nil, err
		}
		images[category] = url
	}
	return images, rows.Err()
}

// SetDetailImage creates or replaces a category detail image
func (s *Store) SetDetailImage(ctx context.Context, category, imageURL string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_detail_images (category, image_url) VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET image_url = excluded.image_url
	`, category, imageURL)
	return err
}

// GlobalData loads everything the home page shows
func (s *Store) GlobalData(ctx context.Context) (*models.GlobalData, error) {
	var (
		g   models.GlobalData
		err error
	)
	if g.Slides, err = s.ListSlides(ctx); err != nil {
		return nil, err
	}
	if g.Notifications, err = s.ListNotifications(ctx); err != nil {
		return nil, err
	}
	if g.Headers, err = s.CategoryHeaders(ctx); err != nil {
		return nil, err
	}
	if g.DetailImages, err = s.DetailImages(ctx); err != nil {
		return nil, err
	}
	if g.Tagline, err = s.Tagline(ctx); err != nil {
		return nil, err
	}
	if g.Briefing, err = s.ListBriefings(ctx); err != nil {
		return nil, err
	}
	return &g, nil
}
