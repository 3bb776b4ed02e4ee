package httpapi

import (
	"net/http"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type expenseRequest struct {
	Description string                 `json:"description" validate:"required,max=255"`
	Category    models.ExpenseCategory `json:"category" validate:"required,oneof=Produtos Salários Aluguel Marketing Outros"`
	Amount      decimal.Decimal        `json:"amount" validate:"gte=0"`
	Date        models.Date            `json:"date" validate:"required"`
}

func (r expenseRequest) expense(id int64) *models.Expense {
	return &models.Expense{
		ID:          id,
		Description: r.Description,
		Category:    r.Category,
		Amount:      r.Amount,
		Date:        r.Date,
	}
}

func (h *handlers) listExpenses(c *gin.Context) {
	expenses, err := h.Expenses.ListExpenses(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *handlers) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.Expenses.CreateExpense(c.Request.Context(), req.expense(0))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Expenses.UpdateExpense(c.Request.Context(), req.expense(id))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Expenses.DeleteExpense(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.Status(http.StatusNoContent)
}
