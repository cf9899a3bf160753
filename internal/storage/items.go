package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

const itemColumns = `id, category_type, title, img, author, author_id, views, comments, description,
	event_date, price, location, status, settlement_status, host_bank_info, kakao_chat_url,
	host_description, host_intro_image, details, created_at`

func scanItem(sc rowScanner) (*models.Item, error) {
	var item models.Item
	var authorID sql.NullString
	var details string
	err := sc.Scan(&item.ID, &item.CategoryType, &item.Title, &item.Img, &item.Author, &authorID,
		&item.Views, &item.Comments, &item.Description, &item.EventDate, &item.Price, &item.Location,
		&item.Status, &item.SettlementStatus, &item.HostBankInfo, &item.KakaoChatURL,
		&item.HostDescription, &item.HostIntroImage, &details, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		item.AuthorID = authorID.String
	}
	json.Unmarshal([]byte(details), &item.Details)
	return &item, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListItems returns items newest first, optionally filtered by category
func (s *Store) ListItems(ctx context.Context, category models.Category) ([]models.Item, error) {
	if category != "" {
		return s.queryItems(ctx, `SELECT `+itemColumns+` FROM items WHERE category_type = ? ORDER BY created_at DESC, id DESC`, category)
	}
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC`)
}

// ListItemsByAuthor returns the items a partner created, newest first
func (s *Store) ListItemsByAuthor(ctx context.Context, authorID string) ([]models.Item, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM items WHERE author_id = ? ORDER BY created_at DESC, id DESC`, authorID)
}

// GetItem returns an item by ID
func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// CreateItem inserts an item and returns it with its ID
func (s *Store) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	created := *item
	created.CreatedAt = s.now()
	if created.Status == "" {
		created.Status = models.ItemOpen
	}
	if created.SettlementStatus == "" {
		created.SettlementStatus = models.SettlementPending
	}
	var authorID any
	if created.AuthorID != "" {
		authorID = created.AuthorID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO items (category_type, title, img, author, author_id, views, comments, description,
			event_date, price, location, status, settlement_status, host_bank_info, kakao_chat_url,
			host_description, host_intro_image, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, created.CategoryType, created.Title, created.Img, created.Author, authorID, created.Views,
		created.Comments, created.Description, created.EventDate, created.Price, created.Location,
		created.Status, created.SettlementStatus, created.HostBankInfo, created.KakaoChatURL,
		created.HostDescription, created.HostIntroImage, marshalJSON(created.Details), created.CreatedAt)
	if err != nil {
		return nil, err
	}
	created.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem applies a partial update to an item
func (s *Store) UpdateItem(ctx context.Context, id int64, update *models.ItemUpdate) error {
	var set updateSet
	strField := func(column string, v *string) {
		if v != nil {
			set.add(column, *v)
		}
	}
	strField("title", update.Title)
	strField("img", update.Img)
	strField("description", update.Description)
	strField("event_date", update.EventDate)
	strField("price", update.Price)
	strField("location", update.Location)
	strField("status", update.Status)
	strField("settlement_status", update.SettlementStatus)
	strField("host_bank_info", update.HostBankInfo)
	strField("kakao_chat_url", update.KakaoChatURL)
	strField("host_description", update.HostDescription)
	strField("host_intro_image", update.HostIntroImage)
	if update.Details != nil {
		set.add("details", marshalJSON(update.Details))
	}
	if set.empty() {
		return nil
	}

	found, err := set.exec(ctx, s.db, "items", "id = ?", id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.NotFound, "item not found")
	}
	return nil
}

// IncrementViews bumps an item's view counter
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE items SET views = views + 1 WHERE id = ?`, id)
	return err
}

// DeleteItem removes an item and, by cascade, its interactions
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "item not found")
	}
	return nil
}
