package lms

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, username, passwordHash, role string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,username,password_hash,role,created_at FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,username,password_hash,role,created_at FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func (s *UserStore) List(ctx context.Context, role string, limit, offset int) ([]User, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id,username,password_hash,role,created_at FROM users`
	args := []any{}
	if role != "" {
		q += ` WHERE role=$1`
		args = append(args, role)
	}
	q += ` ORDER BY username LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(offset)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) UpdateRole(ctx context.Context, id, role string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "user")
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "user")
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, NotFoundf("user")
		}
		return User{}, err
	}
	return u, nil
}
