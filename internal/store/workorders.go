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

const workOrderColumns = `id, customer_id, vehicle_id, employee, status, checkin_time, checkout_time,
	damage_log, total, is_paid, payment_method, stock_consumed_at`

func insertWorkOrder(ctx context.Context, tx *sqlx.Tx, wo *models.WorkOrder) error {
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO work_orders (customer_id, vehicle_id, employee, status, checkin_time,
		                          damage_log, total, is_paid, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		wo.CustomerID, wo.VehicleID, wo.Employee, wo.Status, wo.CheckinTime,
		wo.DamageLog, wo.Total, wo.IsPaid, wo.PaymentMethod).Scan(&wo.ID)
	if err != nil {
		return fmt.Errorf("create work order: %w", database.ConstraintError(err))
	}

	for _, svc := range wo.Services {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO work_order_services (work_order_id, service_id) VALUES ($1, $2)`,
			wo.ID, svc.ID)
		if err != nil {
			return fmt.Errorf("link service %d: %w", svc.ID, database.ConstraintError(err))
		}
	}

	return nil
}

// lockWorkOrder holds the row until the surrounding transaction ends, so
// concurrent status updates of one order run one after the other.
func lockWorkOrder(ctx context.Context, tx *sqlx.Tx, id int64) (*models.WorkOrder, error) {
	wo := &models.WorkOrder{}
	err := sqlx.GetContext(ctx, tx, wo,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("lock work order: %w", err)
	}

	orders := []models.WorkOrder{*wo}
	if err := attachServices(ctx, tx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func saveWorkOrderStatus(ctx context.Context, tx *sqlx.Tx, wo *models.WorkOrder) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE work_orders
		 SET status = $1, checkout_time = $2, is_paid = $3, payment_method = $4, stock_consumed_at = $5
		 WHERE id = $6`,
		wo.Status, wo.CheckoutTime, wo.IsPaid, wo.PaymentMethod, wo.StockConsumedAt, wo.ID)
	if err != nil {
		return fmt.Errorf("update work order status: %w", database.ConstraintError(err))
	}
	return expectRow(result, database.ErrWorkOrderNotFound)
}

// deleteWorkOrder removes the service links and then the header. Consumed
// stock is not given back.
func deleteWorkOrder(ctx context.Context, tx *sqlx.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_order_services WHERE work_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete work order services: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	return expectRow(result, database.ErrWorkOrderNotFound)
}

func (s *Store) GetWorkOrder(ctx context.Context, id int64) (*models.WorkOrder, error) {
	wo := &models.WorkOrder{}
	err := sqlx.GetContext(ctx, s.db, wo,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}

	orders := []models.WorkOrder{*wo}
	if err := attachServices(ctx, s.db, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListWorkOrders returns up to limit orders after cursor, most recent
// check-in first, and the cursor of the next page or "" on the last one.
func (s *Store) ListWorkOrders(ctx context.Context, cursor string, limit int) ([]models.WorkOrder, string, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}

	orders := []models.WorkOrder{}
	err = sqlx.SelectContext(ctx, s.db, &orders,
		`SELECT `+workOrderColumns+`
		 FROM work_orders
		 WHERE (checkin_time, id) < ($1, $2)
		 ORDER BY checkin_time DESC, id DESC
		 LIMIT $3`,
		cursorData.CheckinTime, cursorData.ID, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("list work orders: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	if err := attachServices(ctx, s.db, orders); err != nil {
		return nil, "", err
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		nextCursor = EncodeCursor(WorkOrderCursor{
			CheckinTime: last.CheckinTime,
			ID:          last.ID,
		})
	}

	return orders, nextCursor, nil
}

func (s *Store) ListWorkOrdersForCustomer(ctx context.Context, customerID int64) ([]models.WorkOrder, error) {
	return listWorkOrdersForCustomer(ctx, s.db, customerID)
}

func listWorkOrdersForCustomer(ctx context.Context, q sqlx.QueryerContext, customerID int64) ([]models.WorkOrder, error) {
	orders := []models.WorkOrder{}
	err := sqlx.SelectContext(ctx, q, &orders,
		`SELECT `+workOrderColumns+`
		 FROM work_orders
		 WHERE customer_id = $1
		 ORDER BY checkin_time DESC, id DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list work orders for customer: %w", err)
	}

	if err := attachServices(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachServices fills Services on every order with the catalog entries it
// links to, each with its bill of materials.
func attachServices(ctx context.Context, q sqlx.QueryerContext, orders []models.WorkOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	for i, wo := range orders {
		ids[i] = wo.ID
	}

	var rows []struct {
		WorkOrderID int64 `db:"work_order_id"`
		models.Service
	}
	err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT wos.work_order_id, s.id, s.name, s.price
		 FROM work_order_services wos
		 JOIN services s ON s.id = wos.service_id
		 WHERE wos.work_order_id = ANY($1)
		 ORDER BY s.name`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list work order services: %w", err)
	}

	distinct := make(map[int64]int)
	var services []models.Service
	for _, row := range rows {
		if _, seen := distinct[row.ID]; !seen {
			distinct[row.ID] = len(services)
			services = append(services, row.Service)
		}
	}
	if err := attachBillOfMaterials(ctx, q, services); err != nil {
		return err
	}

	byOrder := make(map[int64][]models.Service)
	for _, row := range rows {
		byOrder[row.WorkOrderID] = append(byOrder[row.WorkOrderID], services[distinct[row.ID]])
	}
	for i := range orders {
		orders[i].Services = byOrder[orders[i].ID]
		if orders[i].Services == nil {
			orders[i].Services = []models.Service{}
		}
	}
	return nil
}
