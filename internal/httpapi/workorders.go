package httpapi

import (
	"net/http"
	"strconv"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/internal/workorder"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status        models.WorkOrderStatus `json:"status"`
	IsPaid        *bool                  `json:"isPaid"`
	PaymentMethod *models.PaymentMethod  `json:"paymentMethod"`
}

func (h *handlers) listWorkOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, next, err := h.WorkOrders.List(c.Request.Context(), c.Query("cursor"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, store.CursorPage{
		Items:      orders,
		NextCursor: next,
		HasMore:    next != "",
	})
}

func (h *handlers) createWorkOrder(c *gin.Context) {
	var in workorder.CreateInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.WorkOrders.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getWorkOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	wo, err := h.WorkOrders.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wo)
}

func (h *handlers) updateWorkOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.WorkOrders.UpdateStatus(c.Request.Context(), id, workorder.StatusUpdate{
		Status:        req.Status,
		IsPaid:        req.IsPaid,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteWorkOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.WorkOrders.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.Reports.Invalidate()
	c.Status(http.StatusNoContent)
}
