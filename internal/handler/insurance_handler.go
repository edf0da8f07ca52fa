package handler

import (
	"net/http"

	"go-ticket-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

type InsuranceHandler struct {
	service service.TicketingService
}

func NewInsuranceHandler(service service.TicketingService) *InsuranceHandler {
	return &InsuranceHandler{service: service}
}

func (h *InsuranceHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("insurance/premium", h.Premium)
		router.GET("insurance/pool", h.PoolBalance)
	}
}

// PremiumQuery 保費試算請求
type PremiumQuery struct {
	Price uint64 `form:"price" binding:"required"`
}

func (h *InsuranceHandler) Premium(c *gin.Context) {
	var query PremiumQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"price":   query.Price,
		"premium": h.service.GetInsurancePremium(query.Price),
	})
}

func (h *InsuranceHandler) PoolBalance(c *gin.Context) {
	balance, err := h.service.GetInsurancePoolBalance(c)
	if err != nil {
		handleLedgerError(c, err, "GetInsurancePoolBalance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
