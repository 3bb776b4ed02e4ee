package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// CreateService writes the service and its bill of materials atomically.
func (s *Store) CreateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO services (name, price) VALUES ($1, $2) RETURNING id`,
			svc.Name, svc.Price).Scan(&svc.ID)
		if err != nil {
			return fmt.Errorf("create service: %w", database.ConstraintError(err))
		}
		return insertBillOfMaterials(ctx, tx, svc.ID, svc.ProductsConsumed)
	})
	if err != nil {
		return nil, err
	}

	if svc.ProductsConsumed == nil {
		svc.ProductsConsumed = []models.ProductUsage{}
	}
	return svc, nil
}

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}
	err := sqlx.SelectContext(ctx, s.db, &services,
		`SELECT id, name, price FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	if err := attachBillOfMaterials(ctx, s.db, services); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	services, err := resolveServices(ctx, s.db, []int64{id})
	if err != nil {
		return nil, err
	}
	return &services[0], nil
}

// FindServiceByName matches the name exactly.
func (s *Store) FindServiceByName(ctx context.Context, name string) (*models.Service, error) {
	svc := models.Service{}
	err := sqlx.GetContext(ctx, s.db, &svc,
		`SELECT id, name, price FROM services WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service by name: %w", err)
	}

	services := []models.Service{svc}
	if err := attachBillOfMaterials(ctx, s.db, services); err != nil {
		return nil, err
	}
	return &services[0], nil
}

// UpdateService changes name and price. The bill of materials is replaced
// only when svc.ProductsConsumed is non-nil. Concurrent edits of overlapping
// bills can deadlock, so the transaction is retried.
func (s *Store) UpdateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	err := database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE services SET name = $1, price = $2 WHERE id = $3`,
			svc.Name, svc.Price, svc.ID)
		if err != nil {
			return fmt.Errorf("update service: %w", database.ConstraintError(err))
		}
		if err := expectRow(result, database.ErrServiceNotFound); err != nil {
			return err
		}

		if svc.ProductsConsumed == nil {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM service_products WHERE service_id = $1`, svc.ID); err != nil {
			return fmt.Errorf("clear bill of materials: %w", err)
		}
		return insertBillOfMaterials(ctx, tx, svc.ID, svc.ProductsConsumed)
	})
	if err != nil {
		return nil, err
	}

	return s.GetService(ctx, svc.ID)
}

// DeleteService fails with a validation error while work orders still
// reference the service.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", database.ConstraintError(err))
	}
	return expectRow(result, database.ErrServiceNotFound)
}

// resolveServices loads every id in order, with its bill of materials.
func resolveServices(ctx context.Context, q sqlx.QueryerContext, ids []int64) ([]models.Service, error) {
	var found []models.Service
	err := sqlx.SelectContext(ctx, q, &found,
		`SELECT id, name, price FROM services WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}

	byID := make(map[int64]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	services := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("service %d: %w", id, database.ErrServiceNotFound)
		}
		services = append(services, svc)
	}

	if err := attachBillOfMaterials(ctx, q, services); err != nil {
		return nil, err
	}
	return services, nil
}

func insertBillOfMaterials(ctx context.Context, tx *sqlx.Tx, serviceID int64, lines []models.ProductUsage) error {
	for _, line := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO service_products (service_id, product_id, quantity)
			 VALUES ($1, $2, $3)`,
			serviceID, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("create bill of materials line: %w", database.ConstraintError(err))
		}
	}
	return nil
}

func attachBillOfMaterials(ctx context.Context, q sqlx.QueryerContext, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}

	ids := make([]int64, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}

	var rows []struct {
		ServiceID int64 `db:"service_id"`
		models.ProductUsage
	}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT service_id, product_id, quantity
		 FROM service_products
		 WHERE service_id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list bill of materials: %w", err)
	}

	byService := make(map[int64][]models.ProductUsage)
	for _, row := range rows {
		byService[row.ServiceID] = append(byService[row.ServiceID], row.ProductUsage)
	}
	for i := range services {
		lines := byService[services[i].ID]
		if lines == nil {
			lines = []models.ProductUsage{}
		}
		sort.Slice(lines, func(a, b int) bool { return lines[a].ProductID < lines[b].ProductID })
		services[i].ProductsConsumed = lines
	}
	return nil
}
