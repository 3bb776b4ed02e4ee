package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const customerColumns = `id, name, phone, email, birthday`

const vehicleColumns = `id, customer_id, plate, model, color, observations`

// CreateCustomer registers the customer together with its vehicles. Either
// all rows are written or none are.
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	err := database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO customers (name, phone, email, birthday, created_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 RETURNING id`,
			c.Name, c.Phone, c.Email, c.Birthday).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("create customer: %w", database.ConstraintError(err))
		}

		for i := range c.Vehicles {
			c.Vehicles[i].CustomerID = c.ID
			if err := insertVehicle(ctx, tx, &c.Vehicles[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.Vehicles == nil {
		c.Vehicles = []models.Vehicle{}
	}
	c.ServiceHistory = []models.WorkOrder{}
	return c, nil
}

// GetCustomer loads the customer with its vehicles and service history, most
// recent check-in first.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := findCustomer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	c.Vehicles, err = listVehicles(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	c.ServiceHistory, err = listWorkOrdersForCustomer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Store) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return findCustomer(ctx, s.db, id)
}

func findCustomer(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Customer, error) {
	c := &models.Customer{}
	err := sqlx.GetContext(ctx, q, c,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListCustomers pages through customers by name, each with its vehicles.
func (s *Store) ListCustomers(ctx context.Context, page, pageSize int) (*OffsetPage, error) {
	page, pageSize, err := normalizePage(page, pageSize)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	customers := []models.Customer{}
	err = sqlx.SelectContext(ctx, s.db, &customers,
		`SELECT `+customerColumns+`
		 FROM customers
		 ORDER BY name, id
		 LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	if err := attachVehicles(ctx, s.db, customers); err != nil {
		return nil, err
	}
	// History is only loaded per customer; list items carry an empty one.
	for i := range customers {
		customers[i].ServiceHistory = []models.WorkOrder{}
	}

	return newOffsetPage(customers, total, page, pageSize), nil
}

// UpdateCustomer overwrites the contact fields. Vehicles are managed
// separately.
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE customers
		 SET name = $1, phone = $2, email = $3, birthday = $4
		 WHERE id = $5`,
		c.Name, c.Phone, c.Email, c.Birthday, c.ID)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", database.ConstraintError(err))
	}

	if err := expectRow(result, database.ErrCustomerNotFound); err != nil {
		return nil, err
	}

	return s.GetCustomer(ctx, c.ID)
}

// DeleteCustomer removes the customer. Vehicles and work orders go with it.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return expectRow(result, database.ErrCustomerNotFound)
}

func (s *Store) AddVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if _, err := findCustomer(ctx, s.db, v.CustomerID); err != nil {
		return nil, err
	}
	if err := insertVehicle(ctx, s.db, v); err != nil {
		return nil, err
	}
	return v, nil
}

func insertVehicle(ctx context.Context, q sqlx.QueryerContext, v *models.Vehicle) error {
	err := q.QueryRowxContext(ctx,
		`INSERT INTO vehicles (customer_id, plate, model, color, observations)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		v.CustomerID, v.Plate, v.Model, v.Color, v.Observations).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", database.ConstraintError(err))
	}
	return nil
}

func findVehicle(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := sqlx.GetContext(ctx, q, v,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func listVehicles(ctx context.Context, q sqlx.QueryerContext, customerID int64) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	err := sqlx.SelectContext(ctx, q, &vehicles,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func attachVehicles(ctx context.Context, q sqlx.QueryerContext, customers []models.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}

	var vehicles []models.Vehicle
	err := sqlx.SelectContext(ctx, q, &vehicles,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE customer_id = ANY($1) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list vehicles: %w", err)
	}

	byCustomer := make(map[int64][]models.Vehicle)
	for _, v := range vehicles {
		byCustomer[v.CustomerID] = append(byCustomer[v.CustomerID], v)
	}
	for i := range customers {
		customers[i].Vehicles = byCustomer[customers[i].ID]
		if customers[i].Vehicles == nil {
			customers[i].Vehicles = []models.Vehicle{}
		}
	}
	return nil
}

func expectRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
