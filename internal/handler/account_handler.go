package handler

import (
	"net/http"

	"go-ticket-ledger/internal/bank"
	"go-ticket-ledger/internal/model"

	"github.com/gin-gonic/gin"
)

// AccountHandler 操作行程內結算帳本的注資與查詢。
// 只在以 MemoryBank 代替外部金流的部署（開發、壓測）掛載
type AccountHandler struct {
	bank *bank.MemoryBank
}

func NewAccountHandler(bank *bank.MemoryBank) *AccountHandler {
	return &AccountHandler{bank: bank}
}

func (h *AccountHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("accounts/:id/deposit", h.Deposit)
		router.GET("accounts/:id/balance", h.Balance)
	}
}

// DepositRequest 注資請求
type DepositRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	account := model.Identity(c.Param("id"))
	if account.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account"})
		return
	}
	var req DepositRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.bank.Deposit(account, req.Amount)
	c.Status(http.StatusOK)
}

func (h *AccountHandler) Balance(c *gin.Context) {
	account := model.Identity(c.Param("id"))
	balance, err := h.bank.BalanceOf(c, account)
	if err != nil {
		handleLedgerError(c, err, "Balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "balance": balance})
}
