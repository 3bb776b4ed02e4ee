package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *handlers) dashboardStats(c *gin.Context) {
	stats, err := h.Reports.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) financialChart(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 36 {
			h.fail(c, models.NewValidationError("months", "must be between 1 and 36"))
			return
		}
		months = n
	}

	chart, err := h.Reports.FinancialChart(c.Request.Context(), months)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (h *handlers) expensesByCategory(c *gin.Context) {
	totals, err := h.Reports.ExpensesByCategory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *handlers) exportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Reports.ExportXLSX(c.Request.Context(), &buf); err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("lavajato-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
