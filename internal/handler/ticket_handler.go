package handler

import (
	"net/http"

	"go-ticket-ledger/internal/model"
	"go-ticket-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketingService
}

func NewTicketHandler(service service.TicketingService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("tickets", h.Purchase)
		router.GET("tickets/:id", h.Get)
		router.POST("tickets/:id/transfer", h.Transfer)
		router.POST("tickets/:id/validate", h.Validate)
		router.POST("tickets/:id/refund", h.ClaimRefund)
		router.POST("tickets/:id/insurance-refund", h.ClaimInsuranceRefund)
	}
}

// PurchaseTicketRequest 購票請求
type PurchaseTicketRequest struct {
	EventID       uint64 `json:"event_id" binding:"required"`
	WithInsurance bool   `json:"with_insurance"`
}

// TransferTicketRequest 轉讓請求
type TransferTicketRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

func (h *TicketHandler) Purchase(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	var req PurchaseTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.PurchaseTicket(c, caller, req.EventID, req.WithInsurance)
	if err != nil {
		handleLedgerError(c, err, "PurchaseTicket")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.service.GetTicket(c, ticketID)
	if err != nil {
		handleLedgerError(c, err, "GetTicket")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Transfer(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TransferTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if err := h.service.TransferTicket(c, caller, ticketID, model.Identity(req.Recipient)); err != nil {
		handleLedgerError(c, err, "TransferTicket")
		return
	}
	c.Status(http.StatusOK)
}

func (h *TicketHandler) Validate(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.ValidateTicket(c, caller, ticketID); err != nil {
		handleLedgerError(c, err, "ValidateTicket")
		return
	}
	c.Status(http.StatusOK)
}

func (h *TicketHandler) ClaimRefund(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.ClaimRefund(c, caller, ticketID); err != nil {
		handleLedgerError(c, err, "ClaimRefund")
		return
	}
	c.Status(http.StatusOK)
}

func (h *TicketHandler) ClaimInsuranceRefund(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.ClaimInsuranceRefund(c, caller, ticketID); err != nil {
		handleLedgerError(c, err, "ClaimInsuranceRefund")
		return
	}
	c.Status(http.StatusOK)
}
