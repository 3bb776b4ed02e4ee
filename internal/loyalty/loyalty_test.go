package loyalty

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wash   = models.Service{ID: 1, Name: "Lavagem Simples", Price: decimal.NewFromInt(40)}
	reward = models.Service{ID: 2, Name: "Polimento de Fidelidade", Price: decimal.Zero}
	other  = models.Service{ID: 3, Name: "Higienização", Price: decimal.NewFromInt(120)}
)

func order(paid bool, total int64, services ...models.Service) models.WorkOrder {
	return models.WorkOrder{IsPaid: paid, Total: decimal.NewFromInt(total), Services: services}
}

func repeat(n int, wo models.WorkOrder) []models.WorkOrder {
	out := make([]models.WorkOrder, n)
	for i := range out {
		out[i] = wo
	}
	return out
}

func TestEvaluate(t *testing.T) {
	paidWash := order(true, 40, wash)
	redemption := order(false, 0, reward)

	tests := []struct {
		name            string
		history         []models.WorkOrder
		formula         Formula
		wantPaid        int
		wantRedemptions int
		wantSince       int
		wantAvailable   bool
		wantMessage     string
	}{
		{
			name:        "empty history",
			formula:     FormulaLegacy,
			wantSince:   0,
			wantMessage: "10 washes remaining",
		},
		{
			name:        "ten paid washes with legacy formula never reports a reward",
			history:     repeat(10, paidWash),
			formula:     FormulaLegacy,
			wantPaid:    10,
			wantSince:   0,
			wantMessage: "10 washes remaining",
		},
		{
			name:          "ten paid washes with corrected formula",
			history:       repeat(10, paidWash),
			formula:       FormulaCorrected,
			wantPaid:      10,
			wantSince:     0,
			wantAvailable: true,
			wantMessage:   "reward available",
		},
		{
			name:        "corrected formula only reports at exact multiples of the goal",
			history:     repeat(11, paidWash),
			formula:     FormulaCorrected,
			wantPaid:    11,
			wantSince:   1,
			wantMessage: "9 washes remaining",
		},
		{
			name:            "redeemed reward resets progress",
			history:         append(repeat(12, paidWash), redemption),
			formula:         FormulaCorrected,
			wantPaid:        12,
			wantRedemptions: 1,
			wantSince:       2,
			wantMessage:     "8 washes remaining",
		},
		{
			name:            "twenty washes with one redemption owes another reward",
			history:         append(repeat(20, paidWash), redemption),
			formula:         FormulaCorrected,
			wantPaid:        20,
			wantRedemptions: 1,
			wantSince:       0,
			wantAvailable:   true,
			wantMessage:     "reward available",
		},
		{
			name:            "more redemptions than earned stays non-negative",
			history:         append(repeat(3, paidWash), redemption),
			formula:         FormulaLegacy,
			wantPaid:        3,
			wantRedemptions: 1,
			wantSince:       3,
			wantMessage:     "7 washes remaining",
		},
		{
			name: "unpaid, free and unrelated orders do not count",
			history: []models.WorkOrder{
				order(false, 40, wash),
				order(true, 0, wash),
				order(true, 120, other),
				order(true, 160, wash, other),
			},
			formula:     FormulaLegacy,
			wantPaid:    1,
			wantSince:   1,
			wantMessage: "9 washes remaining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.history, wash, reward, tt.formula)

			assert.Equal(t, tt.wantPaid, got.PaidWashCount)
			assert.Equal(t, tt.wantRedemptions, got.RedemptionCount)
			assert.Equal(t, tt.wantSince, got.WashesSinceLastReward)
			assert.Equal(t, Goal-tt.wantSince, got.WashesRemaining)
			assert.Equal(t, tt.wantAvailable, got.RewardAvailable)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, Goal, got.Goal)
			assert.Equal(t, reward.Name, got.RewardService)
		})
	}
}

func TestEvaluateLegacyNeverAvailable(t *testing.T) {
	for paid := 0; paid <= 35; paid++ {
		for redemptions := 0; redemptions <= 4; redemptions++ {
			history := append(repeat(paid, order(true, 40, wash)), repeat(redemptions, order(true, 0, reward))...)
			got := Evaluate(history, wash, reward, FormulaLegacy)
			require.False(t, got.RewardAvailable, "paid=%d redemptions=%d", paid, redemptions)
			require.GreaterOrEqual(t, got.WashesSinceLastReward, 0)
			require.Less(t, got.WashesSinceLastReward, Goal)
		}
	}
}

func TestParseFormula(t *testing.T) {
	f, err := ParseFormula("")
	require.NoError(t, err)
	assert.Equal(t, FormulaLegacy, f)

	f, err = ParseFormula("corrected")
	require.NoError(t, err)
	assert.Equal(t, FormulaCorrected, f)

	_, err = ParseFormula("generous")
	assert.Error(t, err)
}

type fakeSource struct {
	customers map[int64]bool
	services  map[string]models.Service
	history   map[int64][]models.WorkOrder
	err       error
}

func (f *fakeSource) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	if !f.customers[id] {
		return nil, fmt.Errorf("customer %w", models.ErrNotFound)
	}
	return &models.Customer{ID: id}, nil
}

func (f *fakeSource) FindServiceByName(ctx context.Context, name string) (*models.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.services[name]
	if !ok {
		return nil, fmt.Errorf("service %w", models.ErrNotFound)
	}
	return &s, nil
}

func (f *fakeSource) ListWorkOrdersForCustomer(ctx context.Context, customerID int64) ([]models.WorkOrder, error) {
	return f.history[customerID], nil
}

func TestEvaluator(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		customers: map[int64]bool{7: true},
		services: map[string]models.Service{
			wash.Name:   wash,
			reward.Name: reward,
		},
		history: map[int64][]models.WorkOrder{
			7: repeat(4, order(true, 40, wash)),
		},
	}

	t.Run("evaluates history", func(t *testing.T) {
		ev := NewEvaluator(source, wash.Name, reward.Name, FormulaLegacy)
		status, err := ev.Evaluate(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 4, status.PaidWashCount)
		assert.Equal(t, "6 washes remaining", status.Message)
	})

	t.Run("unknown customer", func(t *testing.T) {
		ev := NewEvaluator(source, wash.Name, reward.Name, FormulaLegacy)
		_, err := ev.Evaluate(ctx, 8)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("missing catalog entries", func(t *testing.T) {
		ev := NewEvaluator(source, "Lavagem Premium", "Brinde", FormulaLegacy)
		_, err := ev.Evaluate(ctx, 7)
		require.ErrorIs(t, err, models.ErrConfiguration)

		var cfgErr *models.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Len(t, cfgErr.Missing, 2)
	})

	t.Run("storage failure is not a configuration error", func(t *testing.T) {
		failing := *source
		failing.err = errors.New("connection reset")
		ev := NewEvaluator(&failing, wash.Name, reward.Name, FormulaLegacy)
		_, err := ev.Evaluate(ctx, 7)
		require.Error(t, err)
		assert.False(t, errors.Is(err, models.ErrConfiguration))
	})
}
