package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
	ErrorClassConstraint
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001":
			return ErrorClassSerialization
		case "40P01":
			return ErrorClassDeadlock
		case "55P03":
			return ErrorClassTransient
		case "23505", "23503", "23502", "23514":
			return ErrorClassConstraint
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrorClassPermanent
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	class := ClassifyError(err)
	return class == ErrorClassTransient ||
		class == ErrorClassDeadlock ||
		class == ErrorClassSerialization
}

// ConstraintError turns an integrity violation caused by caller input into a
// validation error. Any other error is returned unchanged.
func ConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || ClassifyError(err) != ErrorClassConstraint {
		return err
	}

	field := pqErr.Column
	if field == "" {
		field = pqErr.Constraint
	}

	switch pqErr.Code {
	case "23505":
		return models.NewValidationError(field, "already exists")
	case "23503":
		return models.NewValidationError(pqErr.Constraint, "references a missing or in-use record")
	case "23502":
		return models.NewValidationError(field, "is required")
	default:
		return models.NewValidationError(pqErr.Constraint, "violates a check constraint")
	}
}

var (
	ErrCustomerNotFound  = fmt.Errorf("customer %w", models.ErrNotFound)
	ErrVehicleNotFound   = fmt.Errorf("vehicle %w", models.ErrNotFound)
	ErrServiceNotFound   = fmt.Errorf("service %w", models.ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("product %w", models.ErrNotFound)
	ErrWorkOrderNotFound = fmt.Errorf("work order %w", models.ErrNotFound)
	ErrExpenseNotFound   = fmt.Errorf("expense %w", models.ErrNotFound)
	ErrCredentialNotSet  = fmt.Errorf("credential %w", models.ErrNotFound)
)
