package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/interfaces/http/middleware"
	"carbon-market.backend/internal/interfaces/http/response"
	"carbon-market.backend/internal/usecases"
)

// NGOHandler handles the issuer-facing endpoints
type NGOHandler struct {
	creditUsecase *usecases.CreditUsecase
	marketUsecase *usecases.MarketUsecase
	authUsecase   *usecases.AuthUsecase
}

// NewNGOHandler creates a new NGO handler
func NewNGOHandler(
	creditUsecase *usecases.CreditUsecase,
	marketUsecase *usecases.MarketUsecase,
	authUsecase *usecases.AuthUsecase,
) *NGOHandler {
	return &NGOHandler{
		creditUsecase: creditUsecase,
		marketUsecase: marketUsecase,
		authUsecase:   authUsecase,
	}
}

// ListCredits returns the credits issued by the authenticated NGO
// GET /api/NGO/credits
func (h *NGOHandler) ListCredits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	credits, err := h.creditUsecase.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits": credits})
}

// CreateCredit issues a new credit and assigns its auditor panel
// POST /api/NGO/credits
func (h *NGOHandler) CreateCredit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	var input entities.CreateCreditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	credit, err := h.creditUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message": "Credit created",
		"credit":  credit,
	})
}

// ExpireCredit retires a sold credit
// PATCH /api/NGO/credits/expire/:id
func (h *NGOHandler) ExpireCredit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	creditID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid credit id"))
		return
	}

	if username, ok := middleware.GetUsername(c); ok {
		h.authUsecase.ConsumeExpiryGrant(c.Request.Context(), username)
	}

	if err := h.creditUsecase.Expire(c.Request.Context(), userID, creditID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Credit expired"})
}

// ListTransactions returns the full purchase history
// GET /api/NGO/transactions
func (h *NGOHandler) ListTransactions(c *gin.Context) {
	txns, err := h.marketUsecase.ListTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}

type expireRequestInput struct {
	Password string `json:"password" binding:"required"`
}

// ExpireRequest re-verifies the NGO's password before an expiry
// POST /api/NGO/expire-req
func (h *NGOHandler) ExpireRequest(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	var input expireRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.authUsecase.VerifyForExpiry(c.Request.Context(), username, input.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Verification successful"})
}
