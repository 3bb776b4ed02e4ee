package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	m := New("lavajato")

	m.WorkOrderCreated(decimal.NewFromInt(80))
	m.WorkOrderCreated(decimal.RequireFromString("35.25"))
	m.WorkOrderStatusChanged(models.StatusDelivered)
	m.WorkOrderStatusChanged(models.StatusDelivered)
	m.WorkOrderPaid(decimal.RequireFromString("80.50"))
	m.StockConsumed(50, decimal.RequireFromString("2.5"))
	m.StockConsumed(50, decimal.NewFromInt(1))
	m.WorkOrderDeleted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WorkOrdersCreated))
	assert.Equal(t, 115.25, testutil.ToFloat64(m.BookedValueTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WorkOrderStatus.WithLabelValues("Entregue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkOrdersPaid))
	assert.Equal(t, 80.5, testutil.ToFloat64(m.RevenueTotal))
	assert.Equal(t, 3.5, testutil.ToFloat64(m.StockConsumedTotal.WithLabelValues("50")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkOrdersDeleted))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("lavajato")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/work-orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/work-orders/1", "/api/work-orders/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/api/work-orders/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "lavajato_http_requests_total"))
}
