package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/jmoiron/sqlx"
)

// DashboardStats counts revenue from paid orders only and treats every
// order that is not yet delivered as active.
func (s *Store) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	err := sqlx.GetContext(ctx, s.db, stats,
		`SELECT
		     (SELECT COALESCE(SUM(total), 0) FROM work_orders WHERE is_paid) AS total_revenue,
		     (SELECT COALESCE(SUM(amount), 0) FROM expenses) AS total_expenses,
		     (SELECT COUNT(*) FROM work_orders WHERE status <> $1) AS active_work_orders,
		     (SELECT COUNT(*) FROM customers) AS total_customers`,
		models.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// MonthlyRevenue sums paid orders by check-in month from since onwards.
func (s *Store) MonthlyRevenue(ctx context.Context, since time.Time) ([]models.MonthlyAmount, error) {
	amounts := []models.MonthlyAmount{}
	err := sqlx.SelectContext(ctx, s.db, &amounts,
		`SELECT to_char(date_trunc('month', checkin_time), 'YYYY-MM') AS month,
		        SUM(total) AS amount
		 FROM work_orders
		 WHERE is_paid AND checkin_time >= $1
		 GROUP BY 1
		 ORDER BY 1`,
		since)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return amounts, nil
}

// MonthlyExpenses sums expenses by month of their date from since onwards.
func (s *Store) MonthlyExpenses(ctx context.Context, since time.Time) ([]models.MonthlyAmount, error) {
	amounts := []models.MonthlyAmount{}
	err := sqlx.SelectContext(ctx, s.db, &amounts,
		`SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS month,
		        SUM(amount) AS amount
		 FROM expenses
		 WHERE date >= $1::date
		 GROUP BY 1
		 ORDER BY 1`,
		since.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("monthly expenses: %w", err)
	}
	return amounts, nil
}

func (s *Store) ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error) {
	totals := []models.CategoryTotal{}
	err := sqlx.SelectContext(ctx, s.db, &totals,
		`SELECT category, SUM(amount) AS total
		 FROM expenses
		 GROUP BY category
		 ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	return totals, nil
}
