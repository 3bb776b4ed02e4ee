package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue" db:"total_revenue"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses" db:"total_expenses"`
	ActiveWorkOrders int64           `json:"activeWorkOrders" db:"active_work_orders"`
	TotalCustomers   int64           `json:"totalCustomers" db:"total_customers"`
}

// MonthlyAmount is a sum for one calendar month, keyed as YYYY-MM.
type MonthlyAmount struct {
	Month  string          `json:"month" db:"month"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

type MonthlyFinancials struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
}

type CategoryTotal struct {
	Category ExpenseCategory `json:"category" db:"category"`
	Total    decimal.Decimal `json:"total" db:"total"`
}
