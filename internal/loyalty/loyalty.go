// Package loyalty derives a customer's free-wash reward progress from their
// work order history.
package loyalty

import (
	"fmt"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
)

const Goal = 10

// Formula selects how reward availability is decided.
type Formula string

const (
	// FormulaLegacy reports a reward when washesSinceLastReward >= Goal. The
	// modulo keeps that count below Goal, so a reward is never reported; this
	// is kept for compatibility with the shop's existing screens.
	FormulaLegacy Formula = "legacy"
	// FormulaCorrected reports a reward when the paid wash count is a
	// positive multiple of Goal not yet covered by redemptions.
	FormulaCorrected Formula = "corrected"
)

func ParseFormula(s string) (Formula, error) {
	switch Formula(s) {
	case "", FormulaLegacy:
		return FormulaLegacy, nil
	case FormulaCorrected:
		return FormulaCorrected, nil
	}
	return "", fmt.Errorf("unknown loyalty formula %q", s)
}

type Status struct {
	PaidWashCount         int     `json:"paidWashCount"`
	RedemptionCount       int     `json:"redemptionCount"`
	WashesSinceLastReward int     `json:"washesSinceLastReward"`
	Goal                  int     `json:"goal"`
	WashesRemaining       int     `json:"washesRemaining"`
	RewardAvailable       bool    `json:"rewardAvailable"`
	RewardService         string  `json:"rewardService"`
	Formula               Formula `json:"formula"`
	Message               string  `json:"message"`
}

// Evaluate computes the loyalty status of a history against the wash and
// reward services. It does no I/O.
func Evaluate(history []models.WorkOrder, wash, reward models.Service, formula Formula) Status {
	paid := 0
	redemptions := 0
	for _, wo := range history {
		if wo.IsPaid && wo.Total.IsPositive() && wo.HasService(wash.ID) {
			paid++
		}
		if wo.HasService(reward.ID) {
			redemptions++
		}
	}

	since := mod(paid-redemptions*Goal, Goal)

	var available bool
	switch formula {
	case FormulaCorrected:
		available = paid%Goal == 0 && paid > redemptions*Goal
	default:
		available = since >= Goal
	}

	status := Status{
		PaidWashCount:         paid,
		RedemptionCount:       redemptions,
		WashesSinceLastReward: since,
		Goal:                  Goal,
		WashesRemaining:       Goal - since,
		RewardAvailable:       available,
		RewardService:         reward.Name,
		Formula:               formula,
	}
	if status.Formula == "" {
		status.Formula = FormulaLegacy
	}

	if available {
		status.Message = "reward available"
	} else {
		status.Message = fmt.Sprintf("%d washes remaining", status.WashesRemaining)
	}

	return status
}

// mod returns a mod n in [0, n).
func mod(a, n int) int {
	return ((a % n) + n) % n
}
