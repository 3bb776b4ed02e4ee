package httpapi

import (
	"net/http"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productUsageRequest struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type serviceRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	// Nil on update keeps the stored bill of materials.
	ProductsConsumed []productUsageRequest `json:"productsConsumed" validate:"omitempty,dive"`
}

func (r serviceRequest) service(id int64) *models.Service {
	svc := &models.Service{ID: id, Name: r.Name, Price: r.Price}
	if r.ProductsConsumed != nil {
		svc.ProductsConsumed = make([]models.ProductUsage, len(r.ProductsConsumed))
		for i, line := range r.ProductsConsumed {
			svc.ProductsConsumed[i] = models.ProductUsage{ProductID: line.ProductID, Quantity: line.Quantity}
		}
	}
	return svc
}

type productRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Supplier string          `json:"supplier" validate:"max=200"`
	Cost     decimal.Decimal `json:"cost" validate:"gte=0"`
	Stock    decimal.Decimal `json:"stock" validate:"gte=0"`
	MinStock decimal.Decimal `json:"minStock" validate:"gte=0"`
}

type productPatchRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Supplier *string          `json:"supplier" validate:"omitempty,max=200"`
	Cost     *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	Stock    *decimal.Decimal `json:"stock"`
	MinStock *decimal.Decimal `json:"minStock" validate:"omitempty,gte=0"`
}

func (h *handlers) listServices(c *gin.Context) {
	services, err := h.Catalog.ListServices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *handlers) createService(c *gin.Context) {
	var req serviceRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.Catalog.CreateService(c.Request.Context(), req.service(0))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateService(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req serviceRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Catalog.UpdateService(c.Request.Context(), req.service(id))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteService(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Catalog.DeleteService(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) listLowStock(c *gin.Context) {
	products, err := h.Catalog.ListLowStockProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) createProduct(c *gin.Context) {
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.Catalog.CreateProduct(c.Request.Context(), &models.Product{
		Name:     req.Name,
		Supplier: req.Supplier,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// updateProduct applies a partial update; stock may be set below zero to
// record a shortfall.
func (h *handlers) updateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req productPatchRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Catalog.UpdateProduct(c.Request.Context(), id, store.ProductPatch{
		Name:     req.Name,
		Supplier: req.Supplier,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
