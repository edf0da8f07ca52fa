package model

import (
	"time"

	"github.com/google/uuid"
)

// JournalOp 帳本異動類型
type JournalOp string

const (
	JournalEventCreated     JournalOp = "event_created"
	JournalEventCanceled    JournalOp = "event_canceled"
	JournalTicketPurchased  JournalOp = "ticket_purchased"
	JournalTicketTransfer   JournalOp = "ticket_transferred"
	JournalTicketValidated  JournalOp = "ticket_validated"
	JournalRefundClaimed    JournalOp = "refund_claimed"
	JournalInsuranceClaimed JournalOp = "insurance_claimed"
)

// JournalEntry 每個成功的異動操作在 commit 後發佈一筆，
// 由 archive worker 非同步寫入 Postgres，不在同步路徑上
type JournalEntry struct {
	ID         uuid.UUID `json:"id" db:"entry_id"`
	Op         JournalOp `json:"op" db:"op"`
	Actor      Identity  `json:"actor" db:"actor"`
	EventID    uint64    `json:"event_id" db:"event_id"`
	TicketID   uint64    `json:"ticket_id,omitempty" db:"ticket_id"`
	Amount     uint64    `json:"amount,omitempty" db:"amount"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`

	// commit 當下的快照，讓 archive 不需要回讀 ledger
	Event  *Event  `json:"event,omitempty" db:"-"`
	Ticket *Ticket `json:"ticket,omitempty" db:"-"`
}

// NewJournalEntry 產生帶有新 entry id 與時間戳的異動紀錄
func NewJournalEntry(op JournalOp, actor Identity) *JournalEntry {
	return &JournalEntry{
		ID:         uuid.New(),
		Op:         op,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}
