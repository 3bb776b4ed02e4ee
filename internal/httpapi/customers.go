package httpapi

import (
	"net/http"
	"strconv"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/validation"
	"github.com/gin-gonic/gin"
)

type vehicleRequest struct {
	Plate        string  `json:"plate" validate:"required,max=20"`
	Model        string  `json:"model" validate:"max=120"`
	Color        string  `json:"color" validate:"max=60"`
	Observations *string `json:"observations" validate:"omitempty,max=2000"`
}

func (r vehicleRequest) vehicle(customerID int64) models.Vehicle {
	return models.Vehicle{
		CustomerID:   customerID,
		Plate:        r.Plate,
		Model:        r.Model,
		Color:        r.Color,
		Observations: r.Observations,
	}
}

type customerRequest struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Phone    string           `json:"phone" validate:"max=50"`
	Email    string           `json:"email" validate:"omitempty,email,max=200"`
	Birthday models.Date      `json:"birthday"`
	Vehicles []vehicleRequest `json:"vehicles" validate:"omitempty,dive"`
}

func (h *handlers) listCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := h.Customers.ListCustomers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	customer := &models.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Birthday: req.Birthday,
	}
	for _, v := range req.Vehicles {
		customer.Vehicles = append(customer.Vehicles, v.vehicle(0))
	}

	created, err := h.Customers.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	customer, err := h.Customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handlers) updateCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req customerRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Customers.UpdateCustomer(c.Request.Context(), &models.Customer{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Birthday: req.Birthday,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Customers.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.Status(http.StatusNoContent)
}

func (h *handlers) addVehicle(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req vehicleRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	v := req.vehicle(id)
	created, err := h.Customers.AddVehicle(c.Request.Context(), &v)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) customerLoyalty(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	status, err := h.Loyalty.Evaluate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
