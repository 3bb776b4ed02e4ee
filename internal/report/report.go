// Package report aggregates revenue, costs and activity for the dashboard.
package report

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const statsKey = "dashboard:stats"

type Source interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]models.MonthlyAmount, error)
	MonthlyExpenses(ctx context.Context, since time.Time) ([]models.MonthlyAmount, error)
	ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
}

type Service struct {
	source Source
	cache  *cache.Cache
	ttl    time.Duration
	// generation counts invalidations, so a load that raced a write is not
	// cached.
	generation atomic.Uint64
	months     int
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService caches dashboard stats for ttl; ttl <= 0 disables the cache.
// chartMonths is the default window of FinancialChart.
func NewService(source Source, ttl time.Duration, chartMonths int, opts ...Option) *Service {
	s := &Service{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		months: chartMonths,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if cached, ok := s.cache.Get(statsKey); ok {
		stats := cached.(models.DashboardStats)
		return &stats, nil
	}

	gen := s.generation.Load()
	stats, err := s.source.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dashboard stats: %w", err)
	}

	if s.ttl > 0 && s.generation.Load() == gen {
		s.cache.Set(statsKey, *stats, cache.DefaultExpiration)
	}
	return stats, nil
}

// Invalidate drops cached figures. Call it after any write that can change
// revenue, expenses, orders or customers.
func (s *Service) Invalidate() {
	s.generation.Add(1)
	s.cache.Flush()
}

// FinancialChart returns revenue and costs for each of the last months
// calendar months, oldest first, including months with no activity.
// months <= 0 uses the configured window.
func (s *Service) FinancialChart(ctx context.Context, months int) ([]models.MonthlyFinancials, error) {
	if months <= 0 {
		months = s.months
	}

	keys, since := monthWindow(s.now(), months)

	revenue, err := s.source.MonthlyRevenue(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load monthly revenue: %w", err)
	}
	costs, err := s.source.MonthlyExpenses(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load monthly expenses: %w", err)
	}

	revenueByMonth := byMonth(revenue)
	costsByMonth := byMonth(costs)

	chart := make([]models.MonthlyFinancials, len(keys))
	for i, key := range keys {
		chart[i] = models.MonthlyFinancials{
			Month:   key,
			Revenue: revenueByMonth[key],
			Costs:   costsByMonth[key],
		}
	}
	return chart, nil
}

// ExpensesByCategory returns a total for every known category in a fixed
// order, zero when nothing was spent.
func (s *Service) ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error) {
	totals, err := s.source.ExpensesByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses by category: %w", err)
	}

	byCategory := make(map[models.ExpenseCategory]decimal.Decimal, len(totals))
	for _, t := range totals {
		byCategory[t.Category] = t.Total
	}

	result := make([]models.CategoryTotal, len(models.ExpenseCategories))
	for i, c := range models.ExpenseCategories {
		result[i] = models.CategoryTotal{Category: c, Total: byCategory[c]}
	}
	return result, nil
}

// monthWindow returns the YYYY-MM keys of the n months ending with the month
// of now, and the first instant of the oldest one.
func monthWindow(now time.Time, n int) ([]string, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	since := first.AddDate(0, -(n - 1), 0)

	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = since.AddDate(0, i, 0).Format("2006-01")
	}
	return keys, since
}

func byMonth(amounts []models.MonthlyAmount) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(amounts))
	for _, a := range amounts {
		m[a.Month] = m[a.Month].Add(a.Amount)
	}
	return m
}
