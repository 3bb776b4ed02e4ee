package httpapi

import (
	"net/http"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/validation"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Role     auth.Role `json:"role" validate:"required,oneof=admin funcionario"`
	Password string    `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Role      auth.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	token, expires, err := h.Auth.Login(c.Request.Context(), req.Role, req.Password)
	if err != nil {
		h.Logger.Warn().
			Str("role", string(req.Role)).
			Str("client_ip", c.ClientIP()).
			Msg("login rejected")
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, Role: req.Role, ExpiresAt: expires})
}

func (h *handlers) changePassword(c *gin.Context) {
	role, err := auth.ParseRole(c.Param("role"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var req passwordRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), role, req.Password); err != nil {
		h.fail(c, err)
		return
	}

	h.Logger.Info().Str("role", string(role)).Msg("password changed")
	c.Status(http.StatusNoContent)
}
