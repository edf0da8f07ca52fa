package bank

import (
	"context"
	"errors"

	"go-ticket-ledger/internal/model"
)

// InsurancePoolAccount 保險池的固定帳戶身份，保費入池與理賠出池都走這個帳戶
const InsurancePoolAccount model.Identity = "insurance-pool"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInvalidTransfer   = errors.New("invalid transfer")
)

// Bank 定義外部價值轉移原語的共同介面。
// 單筆 Transfer 必須原子：要麼 from 扣款且 to 入帳，要麼完全沒有效果。
// 跨多筆的原子性由呼叫端負責（失敗時補償先前的轉帳）
type Bank interface {
	// Transfer 從 from 轉 amount 到 to
	Transfer(ctx context.Context, amount uint64, from, to model.Identity) error

	// BalanceOf 查詢帳戶餘額
	BalanceOf(ctx context.Context, account model.Identity) (uint64, error)
}
