package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "carbon-market.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. AppErrors carry their own status; bare
// sentinel errors are mapped to a status here so no handler ever leaks a
// raw 500 for a known failure.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"message": appErr.Message})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		status, message = http.StatusNotFound, "resource not found"
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		status, message = http.StatusConflict, "resource already exists"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		status, message = http.StatusBadRequest, "invalid input"
	case errors.Is(err, domainerrors.ErrUnauthorized), errors.Is(err, domainerrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domainerrors.ErrForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, domainerrors.ErrInvalidState):
		status, message = http.StatusBadRequest, "invalid state for this operation"
	case errors.Is(err, domainerrors.ErrInsufficientAuditors):
		status, message = http.StatusRequestEntityTooLarge, "not enough auditors"
	}
	c.JSON(status, gin.H{"message": message})
}
