package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/models"
)

const userColumns = `id, email, name, avatar, roles, phone, birthdate, interests, is_profile_complete, join_date`

func scanUser(sc rowScanner, extra ...any) (*models.User, error) {
	var u models.User
	var roles, interests string
	dest := append([]any{&u.ID, &u.Email, &u.Name, &u.Avatar, &roles, &u.Phone,
		&u.Birthdate, &interests, &u.IsProfileComplete, &u.JoinDate}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	u.Roles = unmarshalStrings(roles)
	u.Interests = unmarshalStrings(interests)
	return &u, nil
}

// CreateUser inserts a new user with a generated ID
func (s *Store) CreateUser(ctx context.Context, u *models.User, passwordHash string) (*models.User, error) {
	created := *u
	created.ID = uuid.New().String()
	created.Email = strings.ToLower(strings.TrimSpace(u.Email))
	created.JoinDate = s.now()
	if created.Roles == nil {
		created.Roles = []string{}
	}
	if created.Interests == nil {
		created.Interests = []string{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, avatar, roles, phone, birthdate, interests, is_profile_complete, join_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, created.ID, created.Email, passwordHash, created.Name, created.Avatar, marshalJSON(created.Roles),
		created.Phone, created.Birthdate, marshalJSON(created.Interests), boolInt(created.IsProfileComplete), created.JoinDate)
	if isUniqueViolation(err) {
		return nil, apperr.New(apperr.Conflict, "email is already registered")
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetUser returns a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetUserByEmail returns a user and their password hash
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var hash string
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))), &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return u, hash, nil
}

// ListUsers returns all users, newest first
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY join_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateProfile applies a partial profile change
func (s *Store) UpdateProfile(ctx context.Context, id string, p *models.ProfileUpdate) error {
	var set updateSet
	if p.Name != nil {
		set.add("name", strings.TrimSpace(*p.Name))
	}
	if p.Avatar != nil {
		set.add("avatar", *p.Avatar)
	}
	if p.Phone != nil {
		set.add("phone", *p.Phone)
	}
	if p.Birthdate != nil {
		set.add("birthdate", *p.Birthdate)
	}
	if p.Interests != nil {
		set.add("interests", marshalJSON(p.Interests))
	}
	if p.IsProfileComplete != nil {
		set.add("is_profile_complete", boolInt(*p.IsProfileComplete))
	}
	if set.empty() {
		return nil
	}

	found, err := set.exec(ctx, s.db, "users", "id = ?", id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// SetRoles replaces a user's roles
func (s *Store) SetRoles(ctx context.Context, id string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET roles = ? WHERE id = ?`, marshalJSON(roles), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// DeleteUser removes a user and, by cascade, their interactions
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}
