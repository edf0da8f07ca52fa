package handler

import (
	"net/http"

	"go-ticket-ledger/internal/model"
	"go-ticket-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.TicketingService
}

func NewEventHandler(service service.TicketingService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events", h.Create)
		router.POST("events/:id/cancel", h.Cancel)
		router.GET("events/:id", h.Get)
		router.GET("events/:id/tickets", h.ListTickets)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Name         string `json:"name" binding:"required"`
	TotalTickets uint64 `json:"total_tickets" binding:"required"`
	Price        uint64 `json:"price" binding:"required"`
	Date         uint64 `json:"date"`
	MetadataURI  string `json:"metadata_uri"`
}

func (h *EventHandler) Create(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event, err := h.service.CreateEvent(c, caller, model.CreateEventParams{
		Name:         req.Name,
		TotalTickets: req.TotalTickets,
		Price:        req.Price,
		Date:         req.Date,
		MetadataURI:  req.MetadataURI,
	})
	if err != nil {
		handleLedgerError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.CancelEvent(c, caller, eventID); err != nil {
		handleLedgerError(c, err, "CancelEvent")
		return
	}
	c.Status(http.StatusOK)
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetEvent(c, eventID)
	if err != nil {
		handleLedgerError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListTickets(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ids, err := h.service.GetEventTickets(c, eventID)
	if err != nil {
		handleLedgerError(c, err, "GetEventTickets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "ticket_ids": ids})
}
