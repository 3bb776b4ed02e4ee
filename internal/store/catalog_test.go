package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/loyalty"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/internal/workorder"
	"github.com/shopspring/decimal"
)

func TestCustomerRegistry(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)

	got, err := s.GetCustomer(ctx, shop.customer.ID)
	if err != nil {
		t.Fatalf("Get customer: %v", err)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].Plate != "ABC1D23" {
		t.Errorf("Expected the registered vehicle, got %+v", got.Vehicles)
	}
	if got.Birthday.String() != "1990-05-17" {
		t.Errorf("Expected birthday 1990-05-17, got %s", got.Birthday)
	}

	obs := "risco na porta"
	second, err := s.AddVehicle(ctx, &models.Vehicle{
		CustomerID: shop.customer.ID, Plate: "XYZ9K88", Model: "HB20", Observations: &obs,
	})
	if err != nil {
		t.Fatalf("Add vehicle: %v", err)
	}
	if second.ID == 0 {
		t.Error("Vehicle ID should not be 0")
	}

	if _, err := s.AddVehicle(ctx, &models.Vehicle{CustomerID: 999999, Plate: "NOP0000"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found for unknown owner, got: %v", err)
	}

	got.Name = "Maria S. Oliveira"
	got.Birthday = models.Date{}
	updated, err := s.UpdateCustomer(ctx, got)
	if err != nil {
		t.Fatalf("Update customer: %v", err)
	}
	if updated.Name != "Maria S. Oliveira" || !updated.Birthday.IsZero() {
		t.Errorf("Unexpected customer after update: %+v", updated)
	}
	if len(updated.Vehicles) != 2 {
		t.Errorf("Expected 2 vehicles, got %d", len(updated.Vehicles))
	}

	page, err := s.ListCustomers(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List customers: %v", err)
	}
	if page.Total != 1 || page.TotalPages != 1 {
		t.Errorf("Expected 1 customer on 1 page, got total %d pages %d", page.Total, page.TotalPages)
	}
	listed := page.Items.([]models.Customer)
	if listed[0].ServiceHistory == nil {
		t.Error("Listed customers should carry an empty service history, not null")
	}

	if _, err := s.UpdateCustomer(ctx, &models.Customer{ID: 999999, Name: "Ghost"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found updating unknown customer, got: %v", err)
	}
}

func TestDeleteCustomerCascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)
	engine := workorder.NewEngine(s)

	wo, err := engine.Create(ctx, workorder.CreateInput{
		CustomerID: shop.customer.ID,
		VehicleID:  shop.vehicle.ID,
		ServiceIDs: []int64{shop.wash.ID},
	})
	if err != nil {
		t.Fatalf("Create work order: %v", err)
	}

	if err := s.DeleteCustomer(ctx, shop.customer.ID); err != nil {
		t.Fatalf("Delete customer: %v", err)
	}

	if _, err := s.GetCustomer(ctx, shop.customer.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected customer to be gone, got: %v", err)
	}
	if _, err := s.GetWorkOrder(ctx, wo.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected work order to be gone, got: %v", err)
	}

	var vehicles int
	if err := db.Get(&vehicles, `SELECT COUNT(*) FROM vehicles`); err != nil {
		t.Fatalf("Count vehicles: %v", err)
	}
	if vehicles != 0 {
		t.Errorf("Expected vehicles to be deleted, got %d", vehicles)
	}
}

func TestServiceCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)

	found, err := s.FindServiceByName(ctx, "Enceramento")
	if err != nil {
		t.Fatalf("Find service by name: %v", err)
	}
	if len(found.ProductsConsumed) != 2 {
		t.Errorf("Expected 2 bill of materials lines, got %d", len(found.ProductsConsumed))
	}

	if _, err := s.FindServiceByName(ctx, "enceramento"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected exact name match, got: %v", err)
	}

	_, err = s.CreateService(ctx, &models.Service{Name: "Enceramento", Price: decimal.NewFromInt(10)})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error for duplicate name, got: %v", err)
	}

	_, err = s.CreateService(ctx, &models.Service{
		Name:             "Polimento",
		Price:            decimal.NewFromInt(200),
		ProductsConsumed: []models.ProductUsage{{ProductID: 999999, Quantity: decimal.NewFromInt(1)}},
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error for unknown product, got: %v", err)
	}
	if _, err := s.FindServiceByName(ctx, "Polimento"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Failed service create should leave no row, got: %v", err)
	}

	shop.waxing.ProductsConsumed = []models.ProductUsage{
		{ProductID: shop.wax.ID, Quantity: decimal.NewFromInt(1)},
	}
	updated, err := s.UpdateService(ctx, shop.waxing)
	if err != nil {
		t.Fatalf("Update service: %v", err)
	}
	if len(updated.ProductsConsumed) != 1 || updated.ProductsConsumed[0].ProductID != shop.wax.ID {
		t.Errorf("Expected replaced bill of materials, got %+v", updated.ProductsConsumed)
	}

	services, err := s.ListServices(ctx)
	if err != nil {
		t.Fatalf("List services: %v", err)
	}
	if len(services) != 2 || services[0].Name != "Enceramento" {
		t.Errorf("Expected services ordered by name, got %+v", services)
	}

	if err := s.DeleteProduct(ctx, shop.wax.ID); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error deleting a product in use, got: %v", err)
	}
}

func TestProductInventory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)

	stock := decimal.NewFromInt(1)
	updated, err := s.UpdateProduct(ctx, shop.shampoo.ID, store.ProductPatch{Stock: &stock})
	if err != nil {
		t.Fatalf("Update product: %v", err)
	}
	if updated.Name != "Shampoo" || !updated.Cost.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Partial update should keep other fields, got %+v", updated)
	}

	low, err := s.ListLowStockProducts(ctx)
	if err != nil {
		t.Fatalf("List low stock: %v", err)
	}
	if len(low) != 1 || low[0].ID != shop.shampoo.ID {
		t.Errorf("Expected only shampoo to be low, got %+v", low)
	}

	if _, err := s.UpdateProduct(ctx, 999999, store.ProductPatch{Stock: &stock}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found, got: %v", err)
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if len(products) != 2 || products[0].Name != "Cera" {
		t.Errorf("Expected products ordered by name, got %+v", products)
	}
}

func TestExpensesAndDashboard(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)

	checkin := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	engine := workorder.NewEngine(s, workorder.WithClock(func() time.Time { return checkin }))

	paidOrder, err := engine.Create(ctx, workorder.CreateInput{
		CustomerID: shop.customer.ID,
		VehicleID:  shop.vehicle.ID,
		ServiceIDs: []int64{shop.wash.ID, shop.waxing.ID},
	})
	if err != nil {
		t.Fatalf("Create work order: %v", err)
	}
	if _, err := engine.UpdateStatus(ctx, paidOrder.ID, paid(models.PaymentPix)); err != nil {
		t.Fatalf("Update status: %v", err)
	}
	if _, err := engine.Create(ctx, workorder.CreateInput{
		CustomerID: shop.customer.ID,
		VehicleID:  shop.vehicle.ID,
		ServiceIDs: []int64{shop.wash.ID},
	}); err != nil {
		t.Fatalf("Create work order: %v", err)
	}

	for _, e := range []models.Expense{
		{Description: "Aluguel março", Category: models.ExpenseAluguel, Amount: decimal.NewFromInt(1500), Date: models.NewDate(2024, time.March, 5)},
		{Description: "Shampoo", Category: models.ExpenseProdutos, Amount: decimal.NewFromInt(120), Date: models.NewDate(2024, time.February, 20)},
		{Description: "Cera", Category: models.ExpenseProdutos, Amount: decimal.NewFromInt(80), Date: models.NewDate(2024, time.March, 1)},
	} {
		e := e
		if _, err := s.CreateExpense(ctx, &e); err != nil {
			t.Fatalf("Create expense: %v", err)
		}
	}

	_, err = s.CreateExpense(ctx, &models.Expense{
		Description: "Gasolina", Category: "Transporte", Amount: decimal.NewFromInt(50), Date: models.NewDate(2024, time.March, 2),
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error for unknown category, got: %v", err)
	}

	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("List expenses: %v", err)
	}
	if len(expenses) != 3 || expenses[0].Date.String() != "2024-03-05" {
		t.Errorf("Expected expenses newest first, got %+v", expenses)
	}

	stats, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("Dashboard stats: %v", err)
	}
	if !stats.TotalRevenue.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected revenue 80, got %s", stats.TotalRevenue)
	}
	if !stats.TotalExpenses.Equal(decimal.NewFromInt(1700)) {
		t.Errorf("Expected expenses 1700, got %s", stats.TotalExpenses)
	}
	if stats.ActiveWorkOrders != 1 || stats.TotalCustomers != 1 {
		t.Errorf("Expected 1 active order and 1 customer, got %+v", stats)
	}

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revenue, err := s.MonthlyRevenue(ctx, since)
	if err != nil {
		t.Fatalf("Monthly revenue: %v", err)
	}
	if len(revenue) != 1 || revenue[0].Month != "2024-03" || !revenue[0].Amount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Unexpected monthly revenue %+v", revenue)
	}

	costs, err := s.MonthlyExpenses(ctx, since)
	if err != nil {
		t.Fatalf("Monthly expenses: %v", err)
	}
	if len(costs) != 2 || costs[0].Month != "2024-02" || !costs[1].Amount.Equal(decimal.NewFromInt(1580)) {
		t.Errorf("Unexpected monthly expenses %+v", costs)
	}

	byCategory, err := s.ExpensesByCategory(ctx)
	if err != nil {
		t.Fatalf("Expenses by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("Expected 2 categories, got %+v", byCategory)
	}
	for _, c := range byCategory {
		if c.Category == models.ExpenseProdutos && !c.Total.Equal(decimal.NewFromInt(200)) {
			t.Errorf("Expected Produtos total 200, got %s", c.Total)
		}
	}
}

func TestLoyaltyFromHistory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)
	engine := workorder.NewEngine(s)

	for i := 0; i < 10; i++ {
		wo, err := engine.Create(ctx, workorder.CreateInput{
			CustomerID: shop.customer.ID,
			VehicleID:  shop.vehicle.ID,
			ServiceIDs: []int64{shop.wash.ID},
		})
		if err != nil {
			t.Fatalf("Create work order %d: %v", i, err)
		}
		if _, err := engine.UpdateStatus(ctx, wo.ID, paid(models.PaymentCash)); err != nil {
			t.Fatalf("Update status %d: %v", i, err)
		}
	}

	missing := loyalty.NewEvaluator(s, "Lavagem Simples", "Polimento de Fidelidade", loyalty.FormulaLegacy)
	if _, err := missing.Evaluate(ctx, shop.customer.ID); !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("Expected configuration error without a reward service, got: %v", err)
	}

	if _, err := s.CreateService(ctx, &models.Service{Name: "Polimento de Fidelidade", Price: decimal.Zero}); err != nil {
		t.Fatalf("Create reward service: %v", err)
	}

	legacy, err := missing.Evaluate(ctx, shop.customer.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if legacy.PaidWashCount != 10 || legacy.WashesSinceLastReward != 0 || legacy.Message != "10 washes remaining" {
		t.Errorf("Unexpected legacy status %+v", legacy)
	}

	corrected := loyalty.NewEvaluator(s, "Lavagem Simples", "Polimento de Fidelidade", loyalty.FormulaCorrected)
	status, err := corrected.Evaluate(ctx, shop.customer.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !status.RewardAvailable {
		t.Errorf("Expected reward to be available, got %+v", status)
	}
}

func TestCredentials(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	creds := store.New(db).Credentials()

	if _, err := creds.Get(ctx, auth.RoleAdmin); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected no credential, got: %v", err)
	}

	for _, hash := range []string{"first-hash", "second-hash"} {
		if err := creds.Set(ctx, auth.RoleAdmin, hash); err != nil {
			t.Fatalf("Set credential: %v", err)
		}
	}

	hash, err := creds.Get(ctx, auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Get credential: %v", err)
	}
	if hash != "second-hash" {
		t.Errorf("Expected the latest hash, got %q", hash)
	}
}

func TestCustomerServiceHistory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := store.New(db)
	shop := seedShop(t, ctx, s)

	other, err := s.CreateCustomer(ctx, &models.Customer{
		Name:     "João Lima",
		Vehicles: []models.Vehicle{{Plate: "QWE4R56", Model: "Gol"}},
	})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	base := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	now := base
	engine := workorder.NewEngine(s, workorder.WithClock(func() time.Time { return now }))

	create := func(at time.Time, customer *models.Customer, services ...int64) *models.WorkOrder {
		t.Helper()
		now = at
		wo, err := engine.Create(ctx, workorder.CreateInput{
			CustomerID: customer.ID,
			VehicleID:  customer.Vehicles[0].ID,
			ServiceIDs: services,
		})
		if err != nil {
			t.Fatalf("Create work order: %v", err)
		}
		return wo
	}

	oldest := create(base, shop.customer, shop.wash.ID)
	sameTimeFirst := create(base.Add(time.Hour), shop.customer, shop.waxing.ID)
	sameTimeSecond := create(base.Add(time.Hour), shop.customer, shop.wash.ID, shop.waxing.ID)
	create(base.Add(90*time.Minute), other, shop.wash.ID)
	newest := create(base.Add(2*time.Hour), shop.customer, shop.wash.ID)

	want := []int64{newest.ID, sameTimeSecond.ID, sameTimeFirst.ID, oldest.ID}
	wantServices := map[int64]int{newest.ID: 1, sameTimeSecond.ID: 2, sameTimeFirst.ID: 1, oldest.ID: 1}

	got, err := s.GetCustomer(ctx, shop.customer.ID)
	if err != nil {
		t.Fatalf("Get customer: %v", err)
	}
	history, err := s.ListWorkOrdersForCustomer(ctx, shop.customer.ID)
	if err != nil {
		t.Fatalf("List work orders for customer: %v", err)
	}

	for name, orders := range map[string][]models.WorkOrder{"serviceHistory": got.ServiceHistory, "ListWorkOrdersForCustomer": history} {
		if len(orders) != len(want) {
			t.Fatalf("%s: expected %d orders, got %d", name, len(want), len(orders))
		}
		for i, wo := range orders {
			if wo.ID != want[i] {
				t.Errorf("%s[%d]: expected order %d, got %d", name, i, want[i], wo.ID)
			}
			if wo.CustomerID != shop.customer.ID {
				t.Errorf("%s[%d]: order belongs to customer %d", name, i, wo.CustomerID)
			}
			if len(wo.Services) != wantServices[wo.ID] {
				t.Errorf("%s[%d]: expected %d services, got %d", name, i, wantServices[wo.ID], len(wo.Services))
			}
		}
	}

	otherHistory, err := s.ListWorkOrdersForCustomer(ctx, other.ID)
	if err != nil {
		t.Fatalf("List work orders for customer: %v", err)
	}
	if len(otherHistory) != 1 || otherHistory[0].CustomerID != other.ID {
		t.Errorf("Expected one order for the second customer, got %+v", otherHistory)
	}
}
