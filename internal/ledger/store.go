package ledger

import (
	"sync"

	"go-ticket-ledger/internal/model"
	apperrors "go-ticket-ledger/pkg/app_errors"
)

// state 帳本的全部持久狀態：三張 map、兩個遞增計數器、一個保險池總額
type state struct {
	events        map[uint64]*model.Event
	tickets       map[uint64]*model.Ticket
	eventTickets  map[uint64][]uint64
	nextEventID   uint64
	nextTicketID  uint64
	insurancePool uint64
}

// Store 序列化的帳本存放區。
// 每個公開操作對應一次 Update/View：mutex 保證呼叫之間完全不交錯，
// Txn 內的寫入先暫存，callback 回傳 nil 才一次合併回 state，
// 任何錯誤都不會留下部分效果
type Store struct {
	mu sync.Mutex
	st state
}

func NewStore() *Store {
	return &Store{
		st: state{
			events:       make(map[uint64]*model.Event),
			tickets:      make(map[uint64]*model.Ticket),
			eventTickets: make(map[uint64][]uint64),
			// id 從 1 開始、永不重用
			nextEventID:  1,
			nextTicketID: 1,
		},
	}
}

// Update 執行一次交易；fn 回傳 nil 時才 commit
func (s *Store) Update(fn func(tx *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTxn(&s.st)
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit(&s.st)
	return nil
}

// View 唯讀交易，暫存的寫入一律丟棄
func (s *Store) View(fn func(tx *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(newTxn(&s.st))
}

// Txn 單一呼叫的交易視圖：讀取回傳副本 (copy-on-write)，
// 寫入只進暫存區，不直接碰 committed state
type Txn struct {
	base *state

	events       map[uint64]*model.Event
	tickets      map[uint64]*model.Ticket
	eventTickets map[uint64][]uint64

	nextEventID   uint64
	nextTicketID  uint64
	insurancePool uint64
}

func newTxn(base *state) *Txn {
	return &Txn{
		base:          base,
		events:        make(map[uint64]*model.Event),
		tickets:       make(map[uint64]*model.Ticket),
		eventTickets:  make(map[uint64][]uint64),
		nextEventID:   base.nextEventID,
		nextTicketID:  base.nextTicketID,
		insurancePool: base.insurancePool,
	}
}

// Event 讀取活動記錄的交易內副本
func (tx *Txn) Event(id uint64) (*model.Event, error) {
	if e, ok := tx.events[id]; ok {
		return e, nil
	}
	e, ok := tx.base.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return e.Clone(), nil
}

// PutEvent 暫存整筆活動記錄
func (tx *Txn) PutEvent(e *model.Event) {
	tx.events[e.ID] = e
}

// Ticket 讀取票券記錄的交易內副本
func (tx *Txn) Ticket(id uint64) (*model.Ticket, error) {
	if t, ok := tx.tickets[id]; ok {
		return t, nil
	}
	t, ok := tx.base.tickets[id]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return t.Clone(), nil
}

// PutTicket 暫存整筆票券記錄
func (tx *Txn) PutTicket(t *model.Ticket) {
	tx.tickets[t.ID] = t
}

// EventTickets 回傳活動底下的票券 id 序列副本（無上限）
func (tx *Txn) EventTickets(eventID uint64) []uint64 {
	if ids, ok := tx.eventTickets[eventID]; ok {
		return append([]uint64(nil), ids...)
	}
	return append([]uint64(nil), tx.base.eventTickets[eventID]...)
}

// AppendEventTicket 將票券 id 附加到活動的反向索引
func (tx *Txn) AppendEventTicket(eventID, ticketID uint64) {
	ids := tx.EventTickets(eventID)
	tx.eventTickets[eventID] = append(ids, ticketID)
}

// NextEventID 配發下一個活動 id，commit 前不影響 committed 計數器
func (tx *Txn) NextEventID() uint64 {
	id := tx.nextEventID
	tx.nextEventID++
	return id
}

// NextTicketID 配發下一個票券 id
func (tx *Txn) NextTicketID() uint64 {
	id := tx.nextTicketID
	tx.nextTicketID++
	return id
}

// InsurancePool 目前保險池總額
func (tx *Txn) InsurancePool() uint64 {
	return tx.insurancePool
}

// CreditInsurancePool 保費入池
func (tx *Txn) CreditInsurancePool(amount uint64) {
	tx.insurancePool += amount
}

// DebitInsurancePool 理賠出池；池只收 5% 保費，可能不足面額，下限為零
func (tx *Txn) DebitInsurancePool(amount uint64) {
	if amount > tx.insurancePool {
		tx.insurancePool = 0
		return
	}
	tx.insurancePool -= amount
}

// commit 將暫存寫入合併回 committed state
func (tx *Txn) commit(st *state) {
	for id, e := range tx.events {
		st.events[id] = e
	}
	for id, t := range tx.tickets {
		st.tickets[id] = t
	}
	for id, ids := range tx.eventTickets {
		st.eventTickets[id] = ids
	}
	st.nextEventID = tx.nextEventID
	st.nextTicketID = tx.nextTicketID
	st.insurancePool = tx.insurancePool
}
