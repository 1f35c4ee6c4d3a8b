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

// BuyerHandler handles the buyer-facing marketplace endpoints
type BuyerHandler struct {
	marketUsecase      *usecases.MarketUsecase
	creditUsecase      *usecases.CreditUsecase
	certificateUsecase *usecases.CertificateUsecase
}

// NewBuyerHandler creates a new buyer handler
func NewBuyerHandler(
	marketUsecase *usecases.MarketUsecase,
	creditUsecase *usecases.CreditUsecase,
	certificateUsecase *usecases.CertificateUsecase,
) *BuyerHandler {
	return &BuyerHandler{
		marketUsecase:      marketUsecase,
		creditUsecase:      creditUsecase,
		certificateUsecase: certificateUsecase,
	}
}

// ListCredits returns all credits currently for sale
// GET /api/buyer/credits
func (h *BuyerHandler) ListCredits(c *gin.Context) {
	items, err := h.marketUsecase.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits": items})
}

// CreditDetail returns one credit with its auditor usernames
// GET /api/buyer/credits/:id
func (h *BuyerHandler) CreditDetail(c *gin.Context) {
	creditID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid credit id"))
		return
	}

	detail, err := h.creditUsecase.GetDetail(c.Request.Context(), creditID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Purchase transfers a credit to the authenticated buyer
// POST /api/buyer/purchase
func (h *BuyerHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	var input entities.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	txn, err := h.marketUsecase.Purchase(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":     "Purchase successful",
		"transaction": txn,
	})
}

// Sell relists a purchased credit
// PATCH /api/buyer/sell
func (h *BuyerHandler) Sell(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	var input entities.ResellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.marketUsecase.Resell(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Credit listed for sale"})
}

// RemoveFromSale delists a credit without a transfer
// PATCH /api/buyer/remove-from-sale
func (h *BuyerHandler) RemoveFromSale(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	var input entities.DelistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.marketUsecase.Delist(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Credit removed from sale"})
}

// ListPurchased returns the buyer's current holdings
// GET /api/buyer/purchased
func (h *BuyerHandler) ListPurchased(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}
	username, ok := middleware.GetUsername(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("missing authenticated user"))
		return
	}

	items, err := h.marketUsecase.ListPurchased(c.Request.Context(), userID, username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits": items})
}

// GenerateCertificate returns the retirement certificate as JSON
// GET /api/buyer/generate-certificate/:id
func (h *BuyerHandler) GenerateCertificate(c *gin.Context) {
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

	cert, err := h.certificateUsecase.Generate(c.Request.Context(), userID, creditID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

// DownloadCertificate returns the retirement certificate as a base64 PDF
// GET /api/buyer/download-certificate/:id
func (h *BuyerHandler) DownloadCertificate(c *gin.Context) {
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

	dl, err := h.certificateUsecase.Download(c.Request.Context(), userID, creditID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dl)
}
