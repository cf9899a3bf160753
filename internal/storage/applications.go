package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

const applicationColumns = `id, user_id, item_id, status, refund_account, refund_reason, user_name, user_phone, created_at, updated_at`

func scanApplication(sc rowScanner) (*models.Application, error) {
	var a models.Application
	err := sc.Scan(&a.ID, &a.UserID, &a.ItemID, &a.Status, &a.RefundAccount, &a.RefundReason,
		&a.UserName, &a.UserPhone, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// Apply creates an application in the applied state
func (s *Store) Apply(ctx context.Context, userID string, itemID int64, req *models.ApplicationCreate) (*models.Application, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (user_id, item_id, status, refund_account, user_name, user_phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, itemID, models.StatusApplied, req.RefundAccount, req.UserName, req.UserPhone, now, now)
	if isUniqueViolation(err) {
		return nil, apperr.New(apperr.Conflict, "already applied to this item")
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Application{
		ID:            id,
		UserID:        userID,
		ItemID:        itemID,
		Status:        models.StatusApplied,
		RefundAccount: req.RefundAccount,
		UserName:      req.UserName,
		UserPhone:     req.UserPhone,
		AppliedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GetApplication returns a user's application to an item
func (s *Store) GetApplication(ctx context.Context, userID string, itemID int64) (*models.Application, error) {
	a, err := scanApplication(s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = ? AND item_id = ?`, userID, itemID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListApplicationsByUser returns a user's applications, newest first
func (s *Store) ListApplicationsByUser(ctx context.Context, userID string) ([]models.Application, error) {
	return s.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListApplicationsByItem returns an item's applicants, newest first. Missing
// name and phone are filled from the applicant's profile.
func (s *Store) ListApplicationsByItem(ctx context.Context, itemID int64) ([]models.Application, error) {
	return s.queryApplications(ctx, `
		SELECT a.id, a.user_id, a.item_id, a.status, a.refund_account, a.refund_reason,
			COALESCE(NULLIF(a.user_name, ''), u.name, ''),
			COALESCE(NULLIF(a.user_phone, ''), u.phone, ''),
			a.created_at, a.updated_at
		FROM applications a LEFT JOIN users u ON u.id = a.user_id
		WHERE a.item_id = ? ORDER BY a.created_at DESC, a.id DESC
	`, itemID)
}

// UpdateApplicationStatus moves an application to a new status. Confirming
// an application notifies the applicant in the same transaction.
func (s *Store) UpdateApplicationStatus(ctx context.Context, userID string, itemID int64, to models.ApplicationStatus) (*models.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	app, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = ? AND item_id = ?`, userID, itemID))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "application not found")
	}
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(app.Status, to) {
		return nil, apperr.New(apperr.FailedPrecondition,
			fmt.Sprintf("cannot change status from %s to %s", app.Status, to))
	}
	if app.Status == to {
		return app, nil
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx, `UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		to, now, app.ID); err != nil {
		return nil, err
	}

	if to == models.StatusConfirmed {
		var title string
		if err := tx.QueryRowContext(ctx, `SELECT title FROM items WHERE id = ?`, itemID).Scan(&title); err != nil {
			return nil, err
		}
		if err := insertUserNotification(ctx, tx, userID, "신청 완료 알림",
			fmt.Sprintf("축하합니다! [%s] 모임 신청이 승인되었습니다.", title), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	app.Status = to
	app.UpdatedAt = now
	return app, nil
}

// CancelApplication turns a user's application into a refund request
func (s *Store) CancelApplication(ctx context.Context, userID string, itemID int64, req *models.ApplicationCancel) (*models.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	app, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = ? AND item_id = ?`, userID, itemID))
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "application not found")
	}
	if err != nil {
		return nil, err
	}
	if !app.Status.Cancellable() {
		return nil, apperr.New(apperr.FailedPrecondition,
			fmt.Sprintf("application in status %s cannot be cancelled", app.Status))
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE applications SET status = ?, refund_reason = ?, refund_account = ?, updated_at = ? WHERE id = ?
	`, models.StatusRefundRequested, req.Reason, req.Account, now, app.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	app.Status = models.StatusRefundRequested
	app.RefundReason = req.Reason
	app.RefundAccount = req.Account
	app.UpdatedAt = now
	return app, nil
}
