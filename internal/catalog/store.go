// Package catalog reads the subscription products table.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/sqlinline"
)

type Store struct {
	SQL infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{SQL: sql}
}

// ListActive returns every active product ordered by plan type.
func (s *Store) ListActive(ctx context.Context) ([]domain.Product, error) {
	return s.query(ctx, sqlinline.QSelectActiveProducts)
}

// SearchByName returns active products whose name contains term,
// case-insensitively.
func (s *Store) SearchByName(ctx context.Context, term string) ([]domain.Product, error) {
	return s.query(ctx, sqlinline.QSearchProducts, term)
}

// GetByID returns one active product, or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	row := s.SQL.QueryRow(ctx, sqlinline.QSelectProductByID, id)
	err := row.Scan(&p.ID, &p.Name, &p.PlanType, &p.Price, &p.DurationMonths, &p.Description, &p.Features, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]domain.Product, error) {
	rows, err := s.SQL.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PlanType, &p.Price, &p.DurationMonths, &p.Description, &p.Features, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}
