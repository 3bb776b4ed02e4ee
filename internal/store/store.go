package store

import (
	"context"

	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/workorder"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Store is the PostgreSQL implementation of the registry, catalog, work
// order and reporting persistence.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx runs fn against a single read-committed transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(workorder.Tx) error) error {
	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sqlx.Tx) error {
		return fn(txQueries{tx: tx})
	})
}

type txQueries struct {
	tx *sqlx.Tx
}

func (q txQueries) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return findCustomer(ctx, q.tx, id)
}

func (q txQueries) FindVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return findVehicle(ctx, q.tx, id)
}

func (q txQueries) ResolveServices(ctx context.Context, ids []int64) ([]models.Service, error) {
	return resolveServices(ctx, q.tx, ids)
}

func (q txQueries) InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) error {
	return insertWorkOrder(ctx, q.tx, wo)
}

func (q txQueries) LockWorkOrder(ctx context.Context, id int64) (*models.WorkOrder, error) {
	return lockWorkOrder(ctx, q.tx, id)
}

func (q txQueries) SaveWorkOrderStatus(ctx context.Context, wo *models.WorkOrder) error {
	return saveWorkOrderStatus(ctx, q.tx, wo)
}

func (q txQueries) DecrementStock(ctx context.Context, productID int64, quantity decimal.Decimal) (*models.Product, error) {
	return decrementStock(ctx, q.tx, productID, quantity)
}

func (q txQueries) DeleteWorkOrder(ctx context.Context, id int64) error {
	return deleteWorkOrder(ctx, q.tx, id)
}
