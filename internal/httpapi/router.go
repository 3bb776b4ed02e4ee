// Package httpapi exposes the back office over JSON HTTP using gin.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/loyalty"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/internal/workorder"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
	UpdateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	AddVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
}

type CatalogStore interface {
	CreateService(ctx context.Context, svc *models.Service) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	UpdateService(ctx context.Context, svc *models.Service) (*models.Service, error)
	DeleteService(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListLowStockProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch store.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type WorkOrders interface {
	Create(ctx context.Context, in workorder.CreateInput) (*models.WorkOrder, error)
	UpdateStatus(ctx context.Context, id int64, upd workorder.StatusUpdate) (*models.WorkOrder, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.WorkOrder, error)
	List(ctx context.Context, cursor string, limit int) ([]models.WorkOrder, string, error)
}

type Loyalty interface {
	Evaluate(ctx context.Context, customerID int64) (loyalty.Status, error)
}

type Reports interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	FinancialChart(ctx context.Context, months int) ([]models.MonthlyFinancials, error)
	ExpensesByCategory(ctx context.Context) ([]models.CategoryTotal, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
	Invalidate()
}

type Authenticator interface {
	Login(ctx context.Context, role auth.Role, password string) (string, time.Time, error)
	ParseToken(token string) (*auth.Claims, error)
	ChangePassword(ctx context.Context, role auth.Role, password string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Customers  CustomerStore
	Catalog    CatalogStore
	Expenses   ExpenseStore
	WorkOrders WorkOrders
	Loyalty    Loyalty
	Reports    Reports
	Auth       Authenticator
	DB         Pinger
	Logger     zerolog.Logger
	// Metrics and MetricsHandler are optional.
	Metrics        gin.HandlerFunc
	MetricsHandler http.Handler
}

type RouterConfig struct {
	CORSOrigins []string
	// LoginRate limits login attempts per client IP.
	LoginRate  rate.Limit
	LoginBurst int
	// LoginIdleTTL drops a client's bucket after this long without attempts.
	// Zero uses ten minutes.
	LoginIdleTTL time.Duration
}

type handlers struct {
	Dependencies
}

func NewRouter(deps Dependencies, cfg RouterConfig) *gin.Engine {
	engine := gin.New()
	h := &handlers{Dependencies: deps}

	engine.Use(
		RequestID(),
		Recovery(deps.Logger),
		Logger(deps.Logger),
		CORS(cfg.CORSOrigins),
	)
	if deps.Metrics != nil {
		engine.Use(deps.Metrics)
	}
	if deps.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := engine.Group("/api")
	api.GET("/health", h.health)

	limiter := newIPRateLimiter(cfg.LoginRate, cfg.LoginBurst, cfg.LoginIdleTTL)
	api.POST("/auth/login", limiter.Middleware(), h.login)

	protected := api.Group("")
	protected.Use(Authenticate(deps.Auth))

	customers := protected.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
		customers.POST("/:id/vehicles", h.addVehicle)
		customers.GET("/:id/loyalty", h.customerLoyalty)
	}

	services := protected.Group("/services")
	{
		services.GET("", h.listServices)
		services.POST("", h.createService)
		services.PUT("/:id", h.updateService)
		services.DELETE("/:id", h.deleteService)
	}

	products := protected.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/low-stock", h.listLowStock)
		products.POST("", h.createProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}

	workOrders := protected.Group("/work-orders")
	{
		workOrders.GET("", h.listWorkOrders)
		workOrders.POST("", h.createWorkOrder)
		workOrders.GET("/:id", h.getWorkOrder)
		workOrders.PUT("/:id", h.updateWorkOrder)
		workOrders.DELETE("/:id", h.deleteWorkOrder)
	}

	protected.GET("/dashboard/stats", h.dashboardStats)

	admin := protected.Group("")
	admin.Use(RequireRole(auth.RoleAdmin))

	expenses := admin.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}

	admin.GET("/dashboard/financial-chart", h.financialChart)
	admin.GET("/dashboard/expenses-by-category", h.expensesByCategory)
	admin.GET("/dashboard/export.xlsx", h.exportXLSX)
	admin.PUT("/settings/password/:role", h.changePassword)

	return engine
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			h.Logger.Error().Err(err).Msg("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
