package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
)

type Source interface {
	FindCustomer(ctx context.Context, id int64) (*models.Customer, error)
	FindServiceByName(ctx context.Context, name string) (*models.Service, error)
	ListWorkOrdersForCustomer(ctx context.Context, customerID int64) ([]models.WorkOrder, error)
}

type Evaluator struct {
	source     Source
	washName   string
	rewardName string
	formula    Formula
}

func NewEvaluator(source Source, washName, rewardName string, formula Formula) *Evaluator {
	return &Evaluator{
		source:     source,
		washName:   washName,
		rewardName: rewardName,
		formula:    formula,
	}
}

// Evaluate loads the customer's history and the configured catalog entries.
// A missing wash or reward service yields a *models.ConfigurationError.
func (e *Evaluator) Evaluate(ctx context.Context, customerID int64) (Status, error) {
	if _, err := e.source.FindCustomer(ctx, customerID); err != nil {
		return Status{}, fmt.Errorf("find customer %d: %w", customerID, err)
	}

	var missing []string
	wash, err := e.lookup(ctx, e.washName, &missing)
	if err != nil {
		return Status{}, err
	}
	reward, err := e.lookup(ctx, e.rewardName, &missing)
	if err != nil {
		return Status{}, err
	}
	if len(missing) > 0 {
		return Status{}, &models.ConfigurationError{Missing: missing}
	}

	history, err := e.source.ListWorkOrdersForCustomer(ctx, customerID)
	if err != nil {
		return Status{}, fmt.Errorf("list work orders for customer %d: %w", customerID, err)
	}

	return Evaluate(history, *wash, *reward, e.formula), nil
}

func (e *Evaluator) lookup(ctx context.Context, name string, missing *[]string) (*models.Service, error) {
	svc, err := e.source.FindServiceByName(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		*missing = append(*missing, fmt.Sprintf("service %q", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service %q: %w", name, err)
	}
	return svc, nil
}
