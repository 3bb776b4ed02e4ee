package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, supplier, cost, stock, min_stock`

// ProductPatch carries the fields of a partial product update. Nil fields
// keep their stored values.
type ProductPatch struct {
	Name     *string
	Supplier *string
	Cost     *decimal.Decimal
	Stock    *decimal.Decimal
	MinStock *decimal.Decimal
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	product := &models.Product{}
	err := sqlx.GetContext(ctx, s.db, product,
		`INSERT INTO products (name, supplier, cost, stock, min_stock)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		p.Name, p.Supplier, p.Cost, p.Stock, p.MinStock)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", database.ConstraintError(err))
	}
	return product, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product := &models.Product{}
	err := sqlx.GetContext(ctx, s.db, product,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := sqlx.SelectContext(ctx, s.db, &products,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListLowStockProducts returns products whose stock is below their minimum,
// the largest shortfall first.
func (s *Store) ListLowStockProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := sqlx.SelectContext(ctx, s.db, &products,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE stock < min_stock
		 ORDER BY min_stock - stock DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	product := &models.Product{}
	err := sqlx.GetContext(ctx, s.db, product,
		`UPDATE products
		 SET name = COALESCE($1, name),
		     supplier = COALESCE($2, supplier),
		     cost = COALESCE($3, cost),
		     stock = COALESCE($4, stock),
		     min_stock = COALESCE($5, min_stock)
		 WHERE id = $6
		 RETURNING `+productColumns,
		patch.Name, patch.Supplier, patch.Cost, patch.Stock, patch.MinStock, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", database.ConstraintError(err))
	}
	return product, nil
}

// DeleteProduct fails with a validation error while a service still lists
// the product in its bill of materials.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", database.ConstraintError(err))
	}
	return expectRow(result, database.ErrProductNotFound)
}

// decrementStock subtracts quantity in a single statement and returns the
// updated row. Stock is allowed to go negative.
func decrementStock(ctx context.Context, q sqlx.QueryerContext, productID int64, quantity decimal.Decimal) (*models.Product, error) {
	product := &models.Product{}
	err := sqlx.GetContext(ctx, q, product,
		`UPDATE products
		 SET stock = stock - $1
		 WHERE id = $2
		 RETURNING `+productColumns,
		quantity, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, database.ErrProductNotFound)
		}
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	return product, nil
}
