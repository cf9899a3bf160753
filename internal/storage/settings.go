package storage

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

// GetSetting returns a setting value and whether it is set
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting creates or replaces a setting
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *Store) settingOr(ctx context.Context, key, fallback string) (string, error) {
	v, ok, err := s.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

// Tagline returns the home page slogan
func (s *Store) Tagline(ctx context.Context) (string, error) {
	return s.settingOr(ctx, models.SettingTagline, models.DefaultTagline)
}

// MyPageBanner returns the my page banner image URL
func (s *Store) MyPageBanner(ctx context.Context) (string, error) {
	return s.settingOr(ctx, models.SettingMyPageBanner, models.DefaultMyPageBanner)
}

// CommissionRate returns the platform commission in percent
func (s *Store) CommissionRate(ctx context.Context) (int, error) {
	v, ok, err := s.GetSetting(ctx, models.SettingCommissionRate)
	if err != nil {
		return 0, err
	}
	if !ok {
		return models.DefaultCommissionRate, nil
	}
	rate, err := strconv.Atoi(v)
	if err != nil {
		return models.DefaultCommissionRate, nil
	}
	return rate, nil
}

// SetCommissionRate stores the platform commission in percent
func (s *Store) SetCommissionRate(ctx context.Context, rate int) error {
	if rate < 0 || rate > 100 {
		return apperr.New(apperr.InvalidArgument, "commission rate must be between 0 and 100")
	}
	return s.SetSetting(ctx, models.SettingCommissionRate, strconv.Itoa(rate))
}
