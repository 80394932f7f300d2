package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/ceramtrade/fincore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// receiptHandler handles HTTP requests related to payment receipts and
// installment settlement.
type receiptHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newReceiptHandler(ss portssvc.SettlementSvcFacade) *receiptHandler {
	return &receiptHandler{settlementService: ss}
}

// registerReceiptRoutes registers routes related to payment receipts.
func registerReceiptRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newReceiptHandler(settlementService)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.createReceipt)
		receipts.GET("", h.listReceipts)
		receipts.GET("/:id", h.getReceipt)
		receipts.POST("/:id/installments", h.addInstallment)
		receipts.GET("/:id/installments", h.listInstallments)
		receipts.POST("/:id/pay", h.payReceipt)
		receipts.POST("/:id/cancel", h.cancelReceipt)
	}
}

// createReceipt godoc
// @Summary Create a payment receipt
// @Description Records an obligation owed to a counterparty; no treasury movement happens
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body dto.CreateReceiptRequest true "Receipt details"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} map[string]string "Validation error, e.g. missing exchange rate for a foreign currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /receipts [post]
func (h *receiptHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.settlementService.CreateReceipt(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create receipt")
		return
	}

	logger.Info("Receipt created", slog.String("receipt_id", receipt.ReceiptID))
	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

// getReceipt godoc
// @Summary Get a receipt by ID
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 404 {object} map[string]string "Receipt not found"
// @Security BearerAuth
// @Router /receipts/{id} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("id")

	receipt, err := h.settlementService.GetReceiptByID(c.Request.Context(), receiptID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve receipt")
		return
	}
	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// listReceipts godoc
// @Summary List payment receipts
// @Tags receipts
// @Produce json
// @Param counterpartyID query string false "Filter by counterparty"
// @Param status query string false "Filter by status (PENDING, PAID, CANCELLED)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListReceiptsResponse
// @Security BearerAuth
// @Router /receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListReceiptsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReceipts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.settlementService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list receipts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// addInstallment godoc
// @Summary Settle part of a receipt
// @Description Withdraws the base-currency amount from the treasury, records the installment and updates the receipt, all atomically
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param installment body dto.AddInstallmentRequest true "Installment details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Validation error, e.g. installment exceeds remaining"
// @Failure 404 {object} map[string]string "Receipt or treasury not found"
// @Failure 409 {object} map[string]string "Receipt is not PENDING, or a concurrent settlement won"
// @Security BearerAuth
// @Router /receipts/{id}/installments [post]
func (h *receiptHandler) addInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("id")

	var req dto.AddInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, installment, err := h.settlementService.AddInstallment(c.Request.Context(), receiptID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to settle installment")
		return
	}

	c.JSON(http.StatusCreated, dto.SettlementResponse{
		Receipt:     dto.ToReceiptResponse(receipt),
		Installment: dto.ToInstallmentResponse(installment),
	})
}

// listInstallments godoc
// @Summary List a receipt's installments
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {array} dto.InstallmentResponse
// @Failure 404 {object} map[string]string "Receipt not found"
// @Security BearerAuth
// @Router /receipts/{id}/installments [get]
func (h *receiptHandler) listInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("id")

	installments, err := h.settlementService.ListInstallments(c.Request.Context(), receiptID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list installments")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponses(installments))
}

// payReceipt godoc
// @Summary Settle a receipt's full remaining amount
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param payment body dto.PayReceiptRequest true "Payment details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 404 {object} map[string]string "Receipt or treasury not found"
// @Failure 409 {object} map[string]string "Receipt is not PENDING"
// @Security BearerAuth
// @Router /receipts/{id}/pay [post]
func (h *receiptHandler) payReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("id")

	var req dto.PayReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, installment, err := h.settlementService.PayReceipt(c.Request.Context(), receiptID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to pay receipt")
		return
	}

	c.JSON(http.StatusCreated, dto.SettlementResponse{
		Receipt:     dto.ToReceiptResponse(receipt),
		Installment: dto.ToInstallmentResponse(installment),
	})
}

// cancelReceipt godoc
// @Summary Cancel a pending receipt
// @Description Only PENDING receipts with no recorded payments can be cancelled
// @Tags receipts
// @Accept json
// @Param id path string true "Receipt ID"
// @Param cancellation body dto.CancelReceiptRequest true "Cancellation reason"
// @Success 204 "Cancelled"
// @Failure 404 {object} map[string]string "Receipt not found"
// @Failure 409 {object} map[string]string "Receipt is settled or already cancelled"
// @Security BearerAuth
// @Router /receipts/{id}/cancel [post]
func (h *receiptHandler) cancelReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("id")

	var req dto.CancelReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settlementService.CancelReceipt(c.Request.Context(), receiptID, req.Reason, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to cancel receipt")
		return
	}
	c.Status(http.StatusNoContent)
}
