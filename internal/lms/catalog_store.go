package lms

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// CatalogStore covers the flat master-data tables: categories and tags.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore { return &CatalogStore{db: db} }

func (s *CatalogStore) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name}
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (id,name) VALUES ($1,$2)`, c.ID, c.Name)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *CatalogStore) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `SELECT id,name FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, NotFoundf("category")
	}
	return c, err
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CatalogStore) UpdateCategory(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name=$1 WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "category")
}

func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "category")
}

func (s *CatalogStore) CreateTag(ctx context.Context, name string) (Tag, error) {
	t := Tag{ID: uuid.NewString(), Name: name}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tags (id,name) VALUES ($1,$2)`, t.ID, t.Name)
	if err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (s *CatalogStore) GetTag(ctx context.Context, id string) (Tag, error) {
	var t Tag
	err := s.db.QueryRowContext(ctx, `SELECT id,name FROM tags WHERE id=$1`, id).
		Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Tag{}, NotFoundf("tag")
	}
	return t, err
}

func (s *CatalogStore) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *CatalogStore) UpdateTag(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tags SET name=$1 WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "tag")
}

func (s *CatalogStore) DeleteTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "tag")
}
