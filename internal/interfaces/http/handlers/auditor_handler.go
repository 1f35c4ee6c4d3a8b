package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/interfaces/http/middleware"
	"carbon-market.backend/internal/interfaces/http/response"
	"carbon-market.backend/internal/usecases"
)

// AuditorHandler handles the auditor-facing endpoints
type AuditorHandler struct {
	creditUsecase *usecases.CreditUsecase
}

// NewAuditorHandler creates a new auditor handler
func NewAuditorHandler(creditUsecase *usecases.CreditUsecase) *AuditorHandler {
	return &AuditorHandler{creditUsecase: creditUsecase}
}

// ListAssignedCredits returns the credits whose audit panel includes the
// authenticated auditor
// GET /api/auditor/credits
func (h *AuditorHandler) ListAssignedCredits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	credits, err := h.creditUsecase.ListByAuditor(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits": credits})
}
