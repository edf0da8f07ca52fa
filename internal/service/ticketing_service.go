package service

import (
	"context"
	"errors"

	"go-ticket-ledger/internal/bank"
	"go-ticket-ledger/internal/cache"
	"go-ticket-ledger/internal/ledger"
	"go-ticket-ledger/internal/model"
	"go-ticket-ledger/internal/queue"
	apperrors "go-ticket-ledger/pkg/app_errors"
	"go-ticket-ledger/pkg/logger"
	"go-ticket-ledger/pkg/metrics"

	"go.uber.org/zap"
)

// TicketingService 票券帳本的公開操作面。
// 每個操作都是一次原子交易：先檢查授權與狀態前置條件，
// 再執行最多兩筆轉帳，最後整筆 replace-on-write 寫回 store
type TicketingService interface {
	CreateEvent(ctx context.Context, caller model.Identity, params model.CreateEventParams) (*model.Event, error)
	CancelEvent(ctx context.Context, caller model.Identity, eventID uint64) error
	PurchaseTicket(ctx context.Context, caller model.Identity, eventID uint64, withInsurance bool) (*model.Ticket, error)
	TransferTicket(ctx context.Context, caller model.Identity, ticketID uint64, recipient model.Identity) error
	ValidateTicket(ctx context.Context, caller model.Identity, ticketID uint64) error
	ClaimRefund(ctx context.Context, caller model.Identity, ticketID uint64) error
	ClaimInsuranceRefund(ctx context.Context, caller model.Identity, ticketID uint64) error

	// 查詢面：不變更狀態，也不做授權檢查
	GetEvent(ctx context.Context, eventID uint64) (*model.Event, error)
	GetTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error)
	GetEventTickets(ctx context.Context, eventID uint64) ([]uint64, error)
	GetInsurancePremium(price uint64) uint64
	GetInsurancePoolBalance(ctx context.Context) (uint64, error)
}

type TicketingServiceImpl struct {
	store   *ledger.Store
	bank    bank.Bank
	gate    cache.EventInventoryGate
	journal queue.JournalQueue
}

func NewTicketingService(
	store *ledger.Store,
	bank bank.Bank,
	gate cache.EventInventoryGate,
	journal queue.JournalQueue,
) TicketingService {
	return &TicketingServiceImpl{
		store:   store,
		bank:    bank,
		gate:    gate,
		journal: journal,
	}
}

func (s *TicketingServiceImpl) CreateEvent(ctx context.Context, caller model.Identity, params model.CreateEventParams) (*model.Event, error) {
	// 原始設計只把範圍寫成文件常數，這裡實際檢查
	if params.Name == "" || len(params.Name) > model.MaxEventNameBytes {
		return nil, apperrors.ErrInvalidParams
	}
	if len(params.MetadataURI) > model.MaxMetadataURIBytes {
		return nil, apperrors.ErrInvalidParams
	}
	if params.Price < model.MinTicketPrice {
		return nil, apperrors.ErrInvalidParams
	}
	if params.TotalTickets == 0 || params.TotalTickets > model.MaxTotalTickets {
		return nil, apperrors.ErrInvalidParams
	}

	var event *model.Event
	err := s.store.Update(func(tx *ledger.Txn) error {
		event = &model.Event{
			ID:           tx.NextEventID(),
			Name:         params.Name,
			Organizer:    caller,
			TotalTickets: params.TotalTickets,
			TicketsSold:  0,
			Price:        params.Price,
			Date:         params.Date,
			IsCanceled:   false,
			MetadataURI:  params.MetadataURI,
		}
		tx.PutEvent(event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 預熱 Redis 庫存；gate 只是輔助擋板，失敗不影響已 commit 的活動
	if err := s.gate.WarmUpInventory(ctx, event.ID, event.TotalTickets); err != nil {
		logger.WithComponent("ticketing_service").Warn("failed to warm up inventory gate",
			zap.Uint64("event_id", event.ID), zap.Error(err))
	}

	entry := model.NewJournalEntry(model.JournalEventCreated, caller)
	entry.EventID = event.ID
	entry.Event = event.Clone()
	s.publish(ctx, entry)

	return event, nil
}

func (s *TicketingServiceImpl) CancelEvent(ctx context.Context, caller model.Identity, eventID uint64) error {
	var event *model.Event
	alreadyCanceled := false

	err := s.store.Update(func(tx *ledger.Txn) error {
		e, err := tx.Event(eventID)
		if err != nil {
			return err
		}
		if e.Organizer != caller {
			return apperrors.ErrNotAuthorized
		}
		// 重複取消視為成功，不產生任何狀態變化
		if e.IsCanceled {
			alreadyCanceled = true
			return nil
		}
		e.IsCanceled = true
		tx.PutEvent(e)
		event = e
		return nil
	})
	if err != nil {
		s.countRejection("cancel_event", err)
		return err
	}
	if alreadyCanceled {
		return nil
	}

	// 清空 gate 庫存，後續購買在入口就被擋下
	if err := s.gate.CloseInventory(ctx, eventID); err != nil {
		logger.WithComponent("ticketing_service").Warn("failed to close inventory gate",
			zap.Uint64("event_id", eventID), zap.Error(err))
	}

	entry := model.NewJournalEntry(model.JournalEventCanceled, caller)
	entry.EventID = eventID
	entry.Event = event.Clone()
	s.publish(ctx, entry)

	return nil
}

func (s *TicketingServiceImpl) PurchaseTicket(ctx context.Context, caller model.Identity, eventID uint64, withInsurance bool) (*model.Ticket, error) {
	log := logger.WithComponent("ticketing_service")

	// 1. Redis 入口擋板：售罄直接快速失敗；gate 故障時放行，帳本為準
	reserved, err := s.gate.ReserveOne(ctx, eventID)
	if err != nil {
		log.Warn("inventory gate unavailable, falling through to ledger",
			zap.Uint64("event_id", eventID), zap.Error(err))
		reserved = true
	} else if !reserved {
		s.countRejection("purchase_ticket", apperrors.ErrSoldOut)
		return nil, apperrors.ErrSoldOut
	}

	var (
		ticket  *model.Ticket
		event   *model.Event
		premium uint64
	)

	err = s.store.Update(func(tx *ledger.Txn) error {
		e, err := tx.Event(eventID)
		if err != nil {
			return err
		}
		if e.IsSoldOut() {
			return apperrors.ErrSoldOut
		}
		if e.IsCanceled {
			return apperrors.ErrEventCanceled
		}

		if withInsurance {
			premium = model.InsurancePremium(e.Price)
		}

		// 2. 結算：票款 buyer -> organizer，保費 buyer -> pool，
		// 同一次呼叫的兩段轉帳；第二段失敗時補償第一段後整筆中止
		if err := s.bank.Transfer(ctx, e.Price, caller, e.Organizer); err != nil {
			return err
		}
		if premium > 0 {
			if err := s.bank.Transfer(ctx, premium, caller, bank.InsurancePoolAccount); err != nil {
				if rbErr := s.bank.Transfer(ctx, e.Price, e.Organizer, caller); rbErr != nil {
					log.Error("failed to compensate ticket payment after premium failure",
						zap.Uint64("event_id", eventID), zap.Error(rbErr))
				}
				return err
			}
			tx.CreditInsurancePool(premium)
		}

		// 3. 鑄造票券並更新活動與反向索引
		ticket = &model.Ticket{
			ID:            tx.NextTicketID(),
			EventID:       e.ID,
			Owner:         caller,
			PurchasePrice: e.Price,
			HasInsurance:  withInsurance,
			MetadataURI:   e.MetadataURI,
		}
		tx.PutTicket(ticket)

		e.TicketsSold++
		tx.PutEvent(e)
		tx.AppendEventTicket(e.ID, ticket.ID)
		event = e
		return nil
	})
	if err != nil {
		// 帳本拒絕，回滾 gate 的預留
		if reserved {
			if rbErr := s.gate.ReleaseOne(ctx, eventID); rbErr != nil {
				log.Warn("failed to release inventory reservation",
					zap.Uint64("event_id", eventID), zap.Error(rbErr))
			}
		}
		s.countRejection("purchase_ticket", err)
		return nil, err
	}

	metrics.TicketPurchases.WithLabelValues(insuredLabel(withInsurance)).Inc()
	s.refreshPoolGauge(ctx)

	entry := model.NewJournalEntry(model.JournalTicketPurchased, caller)
	entry.EventID = event.ID
	entry.TicketID = ticket.ID
	entry.Amount = ticket.PurchasePrice + premium
	entry.Event = event.Clone()
	entry.Ticket = ticket.Clone()
	s.publish(ctx, entry)

	return ticket, nil
}

func (s *TicketingServiceImpl) TransferTicket(ctx context.Context, caller model.Identity, ticketID uint64, recipient model.Identity) error {
	if recipient.IsZero() {
		return apperrors.ErrInvalidParams
	}

	var ticket *model.Ticket
	err := s.store.Update(func(tx *ledger.Txn) error {
		t, err := tx.Ticket(ticketID)
		if err != nil {
			return err
		}
		if !t.IsOwnedBy(caller) {
			return apperrors.ErrNotAuthorized
		}
		if !t.CanTransfer() {
			return apperrors.ErrTransferRestricted
		}
		t.Owner = recipient
		t.Transferred = true
		tx.PutTicket(t)
		ticket = t
		return nil
	})
	if err != nil {
		s.countRejection("transfer_ticket", err)
		return err
	}

	entry := model.NewJournalEntry(model.JournalTicketTransfer, caller)
	entry.EventID = ticket.EventID
	entry.TicketID = ticket.ID
	entry.Ticket = ticket.Clone()
	s.publish(ctx, entry)

	return nil
}

func (s *TicketingServiceImpl) ValidateTicket(ctx context.Context, caller model.Identity, ticketID uint64) error {
	var ticket *model.Ticket
	err := s.store.Update(func(tx *ledger.Txn) error {
		t, err := tx.Ticket(ticketID)
		if err != nil {
			return err
		}
		e, err := tx.Event(t.EventID)
		if err != nil {
			return err
		}
		// 入場核銷只有主辦方能做
		if e.Organizer != caller {
			return apperrors.ErrNotAuthorized
		}
		if t.IsUsed {
			return apperrors.ErrInvalidRefund
		}
		t.IsUsed = true
		tx.PutTicket(t)
		ticket = t
		return nil
	})
	if err != nil {
		s.countRejection("validate_ticket", err)
		return err
	}

	entry := model.NewJournalEntry(model.JournalTicketValidated, caller)
	entry.EventID = ticket.EventID
	entry.TicketID = ticket.ID
	entry.Ticket = ticket.Clone()
	s.publish(ctx, entry)

	return nil
}

func (s *TicketingServiceImpl) ClaimRefund(ctx context.Context, caller model.Identity, ticketID uint64) error {
	var ticket *model.Ticket
	err := s.store.Update(func(tx *ledger.Txn) error {
		t, err := tx.Ticket(ticketID)
		if err != nil {
			return err
		}
		e, err := tx.Event(t.EventID)
		if err != nil {
			return err
		}
		if !t.IsOwnedBy(caller) {
			return apperrors.ErrNotAuthorized
		}
		// 取消退款只在活動已取消、票尚未使用時成立
		if !e.IsCanceled {
			return apperrors.ErrInvalidRefund
		}
		if t.IsUsed {
			return apperrors.ErrInvalidRefund
		}

		// 主辦方已收過票款，由主辦方出資退還
		if err := s.bank.Transfer(ctx, t.PurchasePrice, e.Organizer, caller); err != nil {
			return err
		}

		// 退款為終態，之後不能再核銷或再退
		t.IsUsed = true
		tx.PutTicket(t)
		ticket = t
		return nil
	})
	if err != nil {
		s.countRejection("claim_refund", err)
		return err
	}

	metrics.TicketRefunds.WithLabelValues("cancellation").Inc()

	entry := model.NewJournalEntry(model.JournalRefundClaimed, caller)
	entry.EventID = ticket.EventID
	entry.TicketID = ticket.ID
	entry.Amount = ticket.PurchasePrice
	entry.Ticket = ticket.Clone()
	s.publish(ctx, entry)

	return nil
}

func (s *TicketingServiceImpl) ClaimInsuranceRefund(ctx context.Context, caller model.Identity, ticketID uint64) error {
	var ticket *model.Ticket
	err := s.store.Update(func(tx *ledger.Txn) error {
		t, err := tx.Ticket(ticketID)
		if err != nil {
			return err
		}
		if !t.IsOwnedBy(caller) {
			return apperrors.ErrNotAuthorized
		}
		if !t.HasInsurance {
			return apperrors.ErrInvalidRefund
		}
		if t.InsuranceClaimed {
			return apperrors.ErrInsuranceClaimed
		}

		// 保證退款：不管活動是否取消都能申請一次，由保險池出資
		if err := s.bank.Transfer(ctx, t.PurchasePrice, bank.InsurancePoolAccount, caller); err != nil {
			return err
		}
		tx.DebitInsurancePool(t.PurchasePrice)

		t.InsuranceClaimed = true
		t.IsUsed = true
		tx.PutTicket(t)
		ticket = t
		return nil
	})
	if err != nil {
		s.countRejection("claim_insurance_refund", err)
		return err
	}

	metrics.TicketRefunds.WithLabelValues("insurance").Inc()
	s.refreshPoolGauge(ctx)

	entry := model.NewJournalEntry(model.JournalInsuranceClaimed, caller)
	entry.EventID = ticket.EventID
	entry.TicketID = ticket.ID
	entry.Amount = ticket.PurchasePrice
	entry.Ticket = ticket.Clone()
	s.publish(ctx, entry)

	return nil
}

func (s *TicketingServiceImpl) GetEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	var event *model.Event
	err := s.store.View(func(tx *ledger.Txn) error {
		e, err := tx.Event(eventID)
		if err != nil {
			return err
		}
		event = e
		return nil
	})
	return event, err
}

func (s *TicketingServiceImpl) GetTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.View(func(tx *ledger.Txn) error {
		t, err := tx.Ticket(ticketID)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	return ticket, err
}

func (s *TicketingServiceImpl) GetEventTickets(ctx context.Context, eventID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.store.View(func(tx *ledger.Txn) error {
		if _, err := tx.Event(eventID); err != nil {
			return err
		}
		ids = tx.EventTickets(eventID)
		return nil
	})
	return ids, err
}

func (s *TicketingServiceImpl) GetInsurancePremium(price uint64) uint64 {
	return model.InsurancePremium(price)
}

func (s *TicketingServiceImpl) GetInsurancePoolBalance(ctx context.Context) (uint64, error) {
	var balance uint64
	err := s.store.View(func(tx *ledger.Txn) error {
		balance = tx.InsurancePool()
		return nil
	})
	return balance, err
}

func (s *TicketingServiceImpl) publish(ctx context.Context, entry *model.JournalEntry) {
	if err := s.journal.PublishEntry(ctx, entry); err != nil {
		logger.WithComponent("ticketing_service").Warn("failed to publish journal entry",
			zap.String("op", string(entry.Op)), zap.Error(err))
	}
}

func (s *TicketingServiceImpl) refreshPoolGauge(ctx context.Context) {
	if balance, err := s.GetInsurancePoolBalance(ctx); err == nil {
		metrics.InsurancePoolBalance.Set(float64(balance))
	}
}

func (s *TicketingServiceImpl) countRejection(operation string, err error) {
	metrics.OperationRejections.WithLabelValues(operation, rejectionReason(err)).Inc()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, apperrors.ErrTicketNotFound):
		return "ticket_not_found"
	case errors.Is(err, apperrors.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, apperrors.ErrEventCanceled):
		return "event_canceled"
	case errors.Is(err, apperrors.ErrTransferRestricted):
		return "transfer_restricted"
	case errors.Is(err, apperrors.ErrInvalidRefund):
		return "invalid_refund"
	case errors.Is(err, apperrors.ErrInsuranceClaimed):
		return "insurance_claimed"
	case errors.Is(err, apperrors.ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, bank.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "internal"
	}
}

func insuredLabel(withInsurance bool) string {
	if withInsurance {
		return "true"
	}
	return "false"
}
