package bank

import (
	"context"
	"sync"

	"go-ticket-ledger/internal/model"
)

// MemoryBank 行程內的結算帳本，代替外部清算通道。
// 正式部署時換成真正的金流 adapter，介面不變
type MemoryBank struct {
	mu       sync.Mutex
	balances map[model.Identity]uint64
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[model.Identity]uint64),
	}
}

func (b *MemoryBank) Transfer(ctx context.Context, amount uint64, from, to model.Identity) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidTransfer
	}
	if amount == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok := b.balances[from]
	if !ok {
		return ErrUnknownAccount
	}
	if balance < amount {
		return ErrInsufficientFunds
	}

	// 同一把鎖內完成扣款與入帳，單筆轉帳原子
	b.balances[from] = balance - amount
	b.balances[to] += amount
	return nil
}

func (b *MemoryBank) BalanceOf(ctx context.Context, account model.Identity) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account], nil
}

// Deposit 入金，僅供開發環境與測試注資用
func (b *MemoryBank) Deposit(account model.Identity, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
}
