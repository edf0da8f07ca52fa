package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-ticket-ledger/internal/bank"
	apperrors "go-ticket-ledger/pkg/app_errors"
	"go-ticket-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// parseIDParam 解析路徑上的數字 id
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// handleLedgerError 將封閉錯誤分類對應到 HTTP 狀態碼
func handleLedgerError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidParams):
		log.Warn("Invalid parameters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameters"})
	case errors.Is(err, apperrors.ErrNotAuthorized):
		log.Warn("Not authorized")
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrSoldOut):
		log.Warn("Sold out")
		c.JSON(http.StatusConflict, gin.H{"error": "Sold out"})
	case errors.Is(err, apperrors.ErrEventCanceled):
		log.Warn("Event canceled")
		c.JSON(http.StatusConflict, gin.H{"error": "Event canceled"})
	case errors.Is(err, apperrors.ErrTransferRestricted):
		log.Warn("Transfer restricted")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket already transferred"})
	case errors.Is(err, apperrors.ErrInvalidRefund):
		log.Warn("Invalid refund")
		c.JSON(http.StatusConflict, gin.H{"error": "Refund preconditions not met"})
	case errors.Is(err, apperrors.ErrInsuranceClaimed):
		log.Warn("Insurance already claimed")
		c.JSON(http.StatusConflict, gin.H{"error": "Insurance already claimed"})
	case errors.Is(err, bank.ErrInsufficientFunds), errors.Is(err, bank.ErrUnknownAccount):
		log.Warn("Insufficient funds")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient funds"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
