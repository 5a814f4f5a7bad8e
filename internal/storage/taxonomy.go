package storage

import (
	"context"
	"fmt"

	"github.com/inkwelldev/inkwell/internal/models"
)

// ListCategories returns all known categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Term, error) {
	return s.listTerms(ctx, "categories")
}

// ListTags returns all known tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]models.Term, error) {
	return s.listTerms(ctx, "tags")
}

func (s *Store) listTerms(ctx context.Context, table string) ([]models.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var terms []models.Term
	for rows.Next() {
		var t models.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}
	return terms, nil
}

// ReplaceTaxonomy replaces the full category and tag mirrors in one
// transaction. The hosting platform owns the taxonomy; it pushes the
// current lists here whenever they change.
func (s *Store) ReplaceTaxonomy(ctx context.Context, categories, tags []models.Term) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning taxonomy transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for table, terms := range map[string][]models.Term{
		"categories": categories,
		"tags":       tags,
	} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
		for _, t := range terms {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+table+` (id, name, slug) VALUES (?, ?, ?)`,
				t.ID, t.Name, t.Slug,
			); err != nil {
				return fmt.Errorf("inserting into %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing taxonomy: %w", err)
	}
	return nil
}

// SeedDefaults inserts the baseline category every blog starts with, if the
// categories table is empty.
func (s *Store) SeedDefaults(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug) VALUES (1, 'Uncategorized', 'uncategorized')`)
	if err != nil {
		return fmt.Errorf("seeding default category: %w", err)
	}
	return nil
}
