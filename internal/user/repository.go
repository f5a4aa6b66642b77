package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository stores users in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a user repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindByCredentials implements Store.
func (r *Repository) FindByCredentials(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT username, password, role FROM users WHERE username = ? AND password = ?",
		username, password,
	).Scan(&u.Username, &u.Password, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// Add creates a new user.
func (r *Repository) Add(ctx context.Context, u *User) error {
	if err := Validate(u); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		u.Username, u.Password, u.Role,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("user already exists: %s", u.Username)
		}
		return fmt.Errorf("adding user: %w", err)
	}

	return nil
}

// List returns all users ordered by username.
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT username, password, role FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.Password, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// Validate checks the fields every backend requires before insert.
func Validate(u *User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("invalid role: %q", u.Role)
	}
	return nil
}
