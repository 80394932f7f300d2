package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/ceramtrade/fincore/internal/core/ports/services"
	"github.com/ceramtrade/fincore/internal/dto"
	"github.com/ceramtrade/fincore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// contactHandler handles HTTP requests for financial contacts.
type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func newContactHandler(cs portssvc.ContactSvcFacade) *contactHandler {
	return &contactHandler{contactService: cs}
}

// registerContactRoutes registers routes related to financial contacts.
func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := newContactHandler(contactService)

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:id", h.getContact)
		contacts.DELETE("/:id", h.deactivateContact)
		contacts.POST("/:id/receipts", h.createGeneralReceipt)
		contacts.GET("/:id/receipts", h.listGeneralReceipts)
	}
}

// createContact godoc
// @Summary Create a financial contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /contacts [post]
func (h *contactHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, dto.ToContactResponse(contact, nil))
}

// getContact godoc
// @Summary Get a contact with derived totals
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *contactHandler) getContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("id")

	contact, totals, err := h.contactService.GetContactByID(c.Request.Context(), contactID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve contact")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact, totals))
}

// listContacts godoc
// @Summary List financial contacts
// @Tags contacts
// @Produce json
// @Param includeInactive query bool false "Include deactivated contacts" default(false)
// @Success 200 {array} dto.ContactResponse
// @Security BearerAuth
// @Router /contacts [get]
func (h *contactHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	contacts, err := h.contactService.ListContacts(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list contacts")
		return
	}

	responses := make([]dto.ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = dto.ToContactResponse(&contacts[i], nil)
	}
	c.JSON(http.StatusOK, responses)
}

// deactivateContact godoc
// @Summary Deactivate a contact
// @Tags contacts
// @Param id path string true "Contact ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *contactHandler) deactivateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("id")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.contactService.DeactivateContact(c.Request.Context(), contactID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate contact")
		return
	}
	c.Status(http.StatusNoContent)
}

// createGeneralReceipt godoc
// @Summary Post a general receipt for a contact
// @Description Records a fully settled deposit or withdrawal and moves the treasury in one atomic unit
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param receipt body dto.CreateGeneralReceiptRequest true "Receipt details"
// @Success 201 {object} dto.GeneralReceiptResponse
// @Failure 404 {object} map[string]string "Contact or treasury not found"
// @Failure 409 {object} map[string]string "Contact or treasury is inactive"
// @Security BearerAuth
// @Router /contacts/{id}/receipts [post]
func (h *contactHandler) createGeneralReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("id")

	var req dto.CreateGeneralReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGeneralReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.contactService.CreateGeneralReceipt(c.Request.Context(), contactID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create general receipt")
		return
	}
	c.JSON(http.StatusCreated, dto.ToGeneralReceiptResponse(receipt))
}

// listGeneralReceipts godoc
// @Summary List a contact's general receipts
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListGeneralReceiptsResponse
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id}/receipts [get]
func (h *contactHandler) listGeneralReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListGeneralReceipts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.contactService.ListGeneralReceipts(c.Request.Context(), contactID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list general receipts")
		return
	}
	c.JSON(http.StatusOK, resp)
}
