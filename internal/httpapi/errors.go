package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConfiguration):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (h *handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	var ve *models.ValidationError
	var ce *models.ConfigurationError
	switch {
	case errors.As(err, &ve):
		message = ve.Error()
	case errors.As(err, &ce):
		message = ce.Error()
	case status == http.StatusUnauthorized:
		message = "invalid credentials"
	case status == http.StatusInternalServerError:
		message = "internal server error"
		h.Logger.Error().
			Err(err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, errorBody{Error: message})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.NewValidationError("body", "is not valid JSON for this request")
	}
	return nil
}
