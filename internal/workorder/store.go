package workorder

import (
	"context"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/shopspring/decimal"
)

// Tx is the set of reads and staged writes the engine performs inside one
// transaction. Implementations report missing rows with errors matching
// models.ErrNotFound.
type Tx interface {
	FindCustomer(ctx context.Context, id int64) (*models.Customer, error)
	FindVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	// ResolveServices loads every id with its bill of materials and fails
	// when any id is unknown.
	ResolveServices(ctx context.Context, ids []int64) ([]models.Service, error)
	InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) error
	// LockWorkOrder loads the order with its services and holds a row lock
	// until the transaction ends.
	LockWorkOrder(ctx context.Context, id int64) (*models.WorkOrder, error)
	SaveWorkOrderStatus(ctx context.Context, wo *models.WorkOrder) error
	DecrementStock(ctx context.Context, productID int64, quantity decimal.Decimal) (*models.Product, error)
	DeleteWorkOrder(ctx context.Context, id int64) error
}

type Store interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Tx) error) error
	GetWorkOrder(ctx context.Context, id int64) (*models.WorkOrder, error)
	ListWorkOrders(ctx context.Context, cursor string, limit int) ([]models.WorkOrder, string, error)
}
