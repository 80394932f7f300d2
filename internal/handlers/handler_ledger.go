package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ceramtrade/fincore/internal/core/domain"
	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/ceramtrade/fincore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for counterparty account ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to account ledgers.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries", h.appendEntry)
		ledger.GET("/:counterpartyID/balance", h.getBalance)
		ledger.GET("/:counterpartyID/statement", h.getStatement)
		ledger.GET("/summary", h.getSummary)
	}
}

// appendEntry godoc
// @Summary Append an entry to a counterparty's ledger
// @Description Posts a manual entry; the running balance is computed server-side
// @Tags ledger
// @Accept json
// @Produce json
// @Param entry body dto.AppendEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /ledger/entries [post]
func (h *ledgerHandler) appendEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AppendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AppendEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.AppendEntry(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to append ledger entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// getBalance godoc
// @Summary Get a counterparty's current balance
// @Tags ledger
// @Produce json
// @Param counterpartyID path string true "Counterparty ID"
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /ledger/{counterpartyID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	counterpartyID := c.Param("counterpartyID")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), counterpartyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{CounterpartyID: counterpartyID, Balance: balance})
}

// getStatement godoc
// @Summary Get a counterparty's statement
// @Description Pages the ledger oldest-first so the running balance reads top to bottom
// @Tags ledger
// @Produce json
// @Param counterpartyID path string true "Counterparty ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.StatementResponse
// @Security BearerAuth
// @Router /ledger/{counterpartyID}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	counterpartyID := c.Param("counterpartyID")

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.GetStatement(c.Request.Context(), counterpartyID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSummary godoc
// @Summary Summarize all counterparty ledgers for a role
// @Tags ledger
// @Produce json
// @Param role query string true "Counterparty role (SUPPLIER or CUSTOMER)"
// @Success 200 {array} dto.LedgerSummaryResponse
// @Failure 400 {object} map[string]string "Unknown role"
// @Security BearerAuth
// @Router /ledger/summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	role := domain.CounterpartyRole(c.Query("role"))
	if role != domain.RoleSupplier && role != domain.RoleCustomer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be SUPPLIER or CUSTOMER"})
		return
	}

	summaries, err := h.ledgerService.GetSummaryForAll(c.Request.Context(), role)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to summarize ledgers")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerSummaryResponses(summaries))
}
