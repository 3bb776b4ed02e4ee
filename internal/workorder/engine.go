package workorder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateInput struct {
	CustomerID int64   `json:"customerId" validate:"required,gt=0"`
	VehicleID  int64   `json:"vehicleId" validate:"required,gt=0"`
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
	Employee   *string `json:"employee" validate:"omitempty,max=120"`
	DamageLog  *string `json:"damageLog" validate:"omitempty,max=4000"`
}

// StatusUpdate carries an admin-driven change. Nil IsPaid or PaymentMethod
// keep the stored value.
type StatusUpdate struct {
	Status        models.WorkOrderStatus
	IsPaid        *bool
	PaymentMethod *models.PaymentMethod
}

// Recorder receives engine events for metrics.
type Recorder interface {
	WorkOrderCreated(total decimal.Decimal)
	WorkOrderStatusChanged(status models.WorkOrderStatus)
	WorkOrderPaid(total decimal.Decimal)
	StockConsumed(productID int64, quantity decimal.Decimal)
	WorkOrderDeleted()
}

type noopRecorder struct{}

func (noopRecorder) WorkOrderCreated(decimal.Decimal)              {}
func (noopRecorder) WorkOrderStatusChanged(models.WorkOrderStatus) {}
func (noopRecorder) WorkOrderPaid(decimal.Decimal)                 {}
func (noopRecorder) StockConsumed(int64, decimal.Decimal)          {}
func (noopRecorder) WorkOrderDeleted()                             {}

type Engine struct {
	store    Store
	policy   TransitionPolicy
	recorder Recorder
	now      func() time.Time
	logger   zerolog.Logger
}

type Option func(*Engine)

func WithPolicy(p TransitionPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		policy:   Permissive{},
		recorder: noopRecorder{},
		now:      time.Now,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "workorder").Logger()
	return e
}

// Create checks the order in: it validates the customer and vehicle, prices
// the selected services and persists the order with its service links in one
// transaction.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*models.WorkOrder, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	serviceIDs := uniqueIDs(in.ServiceIDs)

	var created *models.WorkOrder
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.FindCustomer(ctx, in.CustomerID); err != nil {
			return fmt.Errorf("find customer %d: %w", in.CustomerID, err)
		}

		vehicle, err := tx.FindVehicle(ctx, in.VehicleID)
		if err != nil {
			return fmt.Errorf("find vehicle %d: %w", in.VehicleID, err)
		}
		if vehicle.CustomerID != in.CustomerID {
			return models.NewValidationError("vehicleId", "does not belong to the customer")
		}

		services, err := tx.ResolveServices(ctx, serviceIDs)
		if err != nil {
			return fmt.Errorf("resolve services: %w", err)
		}

		wo := &models.WorkOrder{
			CustomerID:  in.CustomerID,
			VehicleID:   in.VehicleID,
			Services:    services,
			Employee:    trimmed(in.Employee),
			Status:      models.StatusWaiting,
			CheckinTime: e.now(),
			DamageLog:   trimmed(in.DamageLog),
			Total:       Total(services),
			IsPaid:      false,
		}
		if err := tx.InsertWorkOrder(ctx, wo); err != nil {
			return fmt.Errorf("insert work order: %w", err)
		}

		created = wo
		return nil
	})
	if err != nil {
		e.logger.Warn().Err(err).
			Int64("customer_id", in.CustomerID).
			Int64("vehicle_id", in.VehicleID).
			Msg("create work order failed")
		return nil, err
	}

	e.recorder.WorkOrderCreated(created.Total)
	e.logger.Info().
		Int64("work_order_id", created.ID).
		Int64("customer_id", created.CustomerID).
		Str("total", created.Total.StringFixed(2)).
		Int("services", len(created.Services)).
		Msg("work order created")

	return created, nil
}

// UpdateStatus applies a status and payment change. Entering Finalizado or
// Entregue stamps the checkout time; any other status clears it. The first
// time the order is paid, the services' bills of materials are debited from
// inventory in the same transaction.
func (e *Engine) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) (*models.WorkOrder, error) {
	if !upd.Status.Valid() {
		return nil, models.NewValidationError("status", "must be one of [Aguardando, Em Andamento, Finalizado, Entregue]")
	}
	if upd.PaymentMethod != nil && !upd.PaymentMethod.Valid() {
		return nil, models.NewValidationError("paymentMethod", "must be one of [pix credit debit cash]")
	}

	var (
		updated  *models.WorkOrder
		consumed bool
	)
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		wo, err := tx.LockWorkOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("lock work order %d: %w", id, err)
		}

		if !e.policy.Allow(wo.Status, upd.Status) {
			return models.NewValidationError("status",
				fmt.Sprintf("cannot move from %s to %s", wo.Status, upd.Status))
		}

		now := e.now()
		wo.Status = upd.Status
		if upd.Status.ChecksOut() {
			wo.CheckoutTime = &now
		} else {
			wo.CheckoutTime = nil
		}
		if upd.IsPaid != nil {
			wo.IsPaid = *upd.IsPaid
		}
		if upd.PaymentMethod != nil {
			method := *upd.PaymentMethod
			wo.PaymentMethod = &method
		}

		if wo.IsPaid && wo.StockConsumedAt == nil {
			if err := e.consumeInventory(ctx, tx, wo); err != nil {
				return err
			}
			wo.StockConsumedAt = &now
			consumed = true
		}

		if err := tx.SaveWorkOrderStatus(ctx, wo); err != nil {
			return fmt.Errorf("save work order %d: %w", id, err)
		}

		updated = wo
		return nil
	})
	if err != nil {
		e.logger.Warn().Err(err).Int64("work_order_id", id).Msg("update work order failed")
		return nil, err
	}

	e.recorder.WorkOrderStatusChanged(updated.Status)
	if consumed {
		e.recorder.WorkOrderPaid(updated.Total)
	}
	e.logger.Info().
		Int64("work_order_id", id).
		Str("status", string(updated.Status)).
		Bool("is_paid", updated.IsPaid).
		Bool("stock_consumed", consumed).
		Msg("work order updated")

	return updated, nil
}

func (e *Engine) consumeInventory(ctx context.Context, tx Tx, wo *models.WorkOrder) error {
	for _, line := range ConsumptionPlan(wo.Services) {
		product, err := tx.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock of product %d: %w", line.ProductID, err)
		}

		e.recorder.StockConsumed(line.ProductID, line.Quantity)
		if product.LowStock() {
			e.logger.Warn().
				Int64("product_id", product.ID).
				Str("product", product.Name).
				Str("stock", product.Stock.String()).
				Str("min_stock", product.MinStock.String()).
				Msg("product below minimum stock")
		}
	}
	return nil
}

// Delete removes the order and its service links. Consumed inventory is not
// restored.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		return tx.DeleteWorkOrder(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete work order %d: %w", id, err)
	}

	e.recorder.WorkOrderDeleted()
	e.logger.Info().Int64("work_order_id", id).Msg("work order deleted")
	return nil
}

func (e *Engine) Get(ctx context.Context, id int64) (*models.WorkOrder, error) {
	return e.store.GetWorkOrder(ctx, id)
}

// List returns orders by check-in time, newest first, and the cursor of the
// next page ("" on the last page).
func (e *Engine) List(ctx context.Context, cursor string, limit int) ([]models.WorkOrder, string, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return e.store.ListWorkOrders(ctx, cursor, limit)
}

// Total sums the current prices of services.
func Total(services []models.Service) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Price)
	}
	return total
}

// ConsumptionPlan merges the bills of materials of services into one line per
// product, ordered by product id so concurrent payments lock rows in the same
// order.
func ConsumptionPlan(services []models.Service) []models.ProductUsage {
	totals := make(map[int64]decimal.Decimal)
	for _, s := range services {
		for _, usage := range s.ProductsConsumed {
			totals[usage.ProductID] = totals[usage.ProductID].Add(usage.Quantity)
		}
	}

	plan := make([]models.ProductUsage, 0, len(totals))
	for productID, qty := range totals {
		if !qty.IsPositive() {
			continue
		}
		plan = append(plan, models.ProductUsage{ProductID: productID, Quantity: qty})
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].ProductID < plan[j].ProductID })
	return plan
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
