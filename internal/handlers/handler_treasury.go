package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ceramtrade/fincore/internal/apperrors"
	"github.com/ceramtrade/fincore/internal/core/domain"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/ceramtrade/fincore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// treasuryHandler handles HTTP requests related to treasuries.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func newTreasuryHandler(ts portssvc.TreasurySvcFacade) *treasuryHandler {
	return &treasuryHandler{treasuryService: ts}
}

// registerTreasuryRoutes registers routes related to treasuries.
func registerTreasuryRoutes(rg *gin.RouterGroup, treasuryService portssvc.TreasurySvcFacade) {
	h := newTreasuryHandler(treasuryService)

	treasuries := rg.Group("/treasuries")
	{
		treasuries.POST("", h.createTreasury)
		treasuries.GET("", h.listTreasuries)
		treasuries.GET("/:id", h.getTreasury)
		treasuries.PUT("/:id", h.updateTreasury)
		treasuries.DELETE("/:id", h.deactivateTreasury)
		treasuries.POST("/:id/deposit", h.deposit)
		treasuries.POST("/:id/withdraw", h.withdraw)
		treasuries.GET("/:id/transactions", h.listTransactions)
		treasuries.GET("/:id/reconcile", h.reconcile)
	}
	rg.POST("/transfers", h.transfer)
}

// respondServiceError maps service errors to HTTP statuses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn("Conflicting operation", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// createTreasury godoc
// @Summary Create a new treasury
// @Description Creates a treasury and posts its opening balance transaction
// @Tags treasuries
// @Accept json
// @Produce json
// @Param treasury body dto.CreateTreasuryRequest true "Treasury details"
// @Success 201 {object} dto.TreasuryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create treasury"
// @Security BearerAuth
// @Router /treasuries [post]
func (h *treasuryHandler) createTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTreasury", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	treasury, err := h.treasuryService.CreateTreasury(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create treasury")
		return
	}

	logger.Info("Treasury created", slog.String("treasury_id", treasury.TreasuryID))
	c.JSON(http.StatusCreated, dto.ToTreasuryResponse(treasury))
}

// getTreasury godoc
// @Summary Get a treasury by ID
// @Tags treasuries
// @Produce json
// @Param id path string true "Treasury ID"
// @Success 200 {object} dto.TreasuryResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Security BearerAuth
// @Router /treasuries/{id} [get]
func (h *treasuryHandler) getTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	treasury, err := h.treasuryService.GetTreasuryByID(c.Request.Context(), treasuryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve treasury")
		return
	}
	c.JSON(http.StatusOK, dto.ToTreasuryResponse(treasury))
}

// listTreasuries godoc
// @Summary List treasuries
// @Tags treasuries
// @Produce json
// @Param includeInactive query bool false "Include deactivated treasuries" default(false)
// @Success 200 {array} dto.TreasuryResponse
// @Security BearerAuth
// @Router /treasuries [get]
func (h *treasuryHandler) listTreasuries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	treasuries, err := h.treasuryService.ListTreasuries(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list treasuries")
		return
	}

	responses := make([]dto.TreasuryResponse, len(treasuries))
	for i := range treasuries {
		responses[i] = dto.ToTreasuryResponse(&treasuries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// updateTreasury godoc
// @Summary Update a treasury's descriptive fields
// @Tags treasuries
// @Accept json
// @Produce json
// @Param id path string true "Treasury ID"
// @Param treasury body dto.UpdateTreasuryRequest true "Fields to update"
// @Success 200 {object} dto.TreasuryResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Security BearerAuth
// @Router /treasuries/{id} [put]
func (h *treasuryHandler) updateTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	var req dto.UpdateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTreasury", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	treasury, err := h.treasuryService.UpdateTreasury(c.Request.Context(), treasuryID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update treasury")
		return
	}
	c.JSON(http.StatusOK, dto.ToTreasuryResponse(treasury))
}

// deactivateTreasury godoc
// @Summary Deactivate a treasury
// @Description Marks the treasury inactive; its transaction log stays readable
// @Tags treasuries
// @Param id path string true "Treasury ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Security BearerAuth
// @Router /treasuries/{id} [delete]
func (h *treasuryHandler) deactivateTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.treasuryService.DeactivateTreasury(c.Request.Context(), treasuryID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate treasury")
		return
	}
	c.Status(http.StatusNoContent)
}

// deposit godoc
// @Summary Deposit into a treasury
// @Tags treasuries
// @Accept json
// @Produce json
// @Param id path string true "Treasury ID"
// @Param movement body dto.MovementRequest true "Deposit details"
// @Success 201 {object} dto.TreasuryTransactionResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 409 {object} map[string]string "Treasury is inactive"
// @Security BearerAuth
// @Router /treasuries/{id}/deposit [post]
func (h *treasuryHandler) deposit(c *gin.Context) {
	h.applyMovement(c, domain.Deposit)
}

// withdraw godoc
// @Summary Withdraw from a treasury
// @Description Withdrawals may overdraw the treasury; the balance can go negative
// @Tags treasuries
// @Accept json
// @Produce json
// @Param id path string true "Treasury ID"
// @Param movement body dto.MovementRequest true "Withdrawal details"
// @Success 201 {object} dto.TreasuryTransactionResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 409 {object} map[string]string "Treasury is inactive"
// @Security BearerAuth
// @Router /treasuries/{id}/withdraw [post]
func (h *treasuryHandler) withdraw(c *gin.Context) {
	h.applyMovement(c, domain.Withdrawal)
}

func (h *treasuryHandler) applyMovement(c *gin.Context, txnType domain.TransactionType) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for treasury movement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var txn *domain.TreasuryTransaction
	var err error
	if txnType == domain.Deposit {
		txn, err = h.treasuryService.Deposit(c.Request.Context(), treasuryID, req, domain.SourceManual, actorID)
	} else {
		txn, err = h.treasuryService.Withdraw(c.Request.Context(), treasuryID, req, domain.SourceManual, actorID)
	}
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply treasury movement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTreasuryTransactionResponse(txn))
}

// transfer godoc
// @Summary Transfer between treasuries
// @Description Applies the withdrawal and deposit legs atomically
// @Tags treasuries
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Treasury not found"
// @Failure 409 {object} map[string]string "Treasury is inactive"
// @Security BearerAuth
// @Router /transfers [post]
func (h *treasuryHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	out, in, err := h.treasuryService.Transfer(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to transfer")
		return
	}

	c.JSON(http.StatusCreated, dto.TransferResponse{
		Out: dto.ToTreasuryTransactionResponse(out),
		In:  dto.ToTreasuryTransactionResponse(in),
	})
}

// listTransactions godoc
// @Summary List a treasury's transactions
// @Description Pages the append-only transaction log, newest first
// @Tags treasuries
// @Produce json
// @Param id path string true "Treasury ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Security BearerAuth
// @Router /treasuries/{id}/transactions [get]
func (h *treasuryHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.treasuryService.ListTransactions(c.Request.Context(), treasuryID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reconcile godoc
// @Summary Reconcile a treasury's balance against its log
// @Description Replays the full transaction log and compares the computed balance with the stored one
// @Tags treasuries
// @Produce json
// @Param id path string true "Treasury ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Treasury not found"
// @Security BearerAuth
// @Router /treasuries/{id}/reconcile [get]
func (h *treasuryHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	treasuryID := c.Param("id")

	resp, err := h.treasuryService.Reconcile(c.Request.Context(), treasuryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile treasury")
		return
	}
	c.JSON(http.StatusOK, resp)
}
