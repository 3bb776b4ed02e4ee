package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/jmoiron/sqlx"
)

const expenseColumns = `id, description, category, amount, date`

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	expense := &models.Expense{}
	err := sqlx.GetContext(ctx, s.db, expense,
		`INSERT INTO expenses (description, category, amount, date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+expenseColumns,
		e.Description, e.Category, e.Amount, e.Date)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", database.ConstraintError(err))
	}
	return expense, nil
}

// ListExpenses returns every expense, newest date first.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	err := sqlx.SelectContext(ctx, s.db, &expenses,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	expense := &models.Expense{}
	err := sqlx.GetContext(ctx, s.db, expense,
		`UPDATE expenses
		 SET description = $1, category = $2, amount = $3, date = $4
		 WHERE id = $5
		 RETURNING `+expenseColumns,
		e.Description, e.Category, e.Amount, e.Date, e.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", database.ConstraintError(err))
	}
	return expense, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return expectRow(result, database.ErrExpenseNotFound)
}
