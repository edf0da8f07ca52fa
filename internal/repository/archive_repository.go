package repository

import (
	"context"

	"go-ticket-ledger/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArchiveRepository 把帳本異動寫進 Postgres 報表庫：
// ledger_journal 為 append-only 流水，event/ticket snapshots 保存最新狀態。
// 這層完全在同步路徑之外，核心的原子性不依賴它
type ArchiveRepository interface {
	RecordEntry(ctx context.Context, entry *model.JournalEntry) error
}

type ArchiveRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewArchiveRepository(pool *pgxpool.Pool) ArchiveRepository {
	return &ArchiveRepositoryImpl{
		pool: pool,
	}
}

// RecordEntry 單一交易內寫入流水與快照，worker 重送時靠 entry_id 去重
func (r *ArchiveRepositoryImpl) RecordEntry(ctx context.Context, entry *model.JournalEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.insertJournal(ctx, tx, entry); err != nil {
		return err
	}

	if entry.Event != nil {
		if err := r.upsertEventSnapshot(ctx, tx, entry.Event); err != nil {
			return err
		}
	}

	if entry.Ticket != nil {
		if err := r.upsertTicketSnapshot(ctx, tx, entry.Ticket); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ArchiveRepositoryImpl) insertJournal(ctx context.Context, tx pgx.Tx, entry *model.JournalEntry) error {
	query := `
		INSERT INTO ledger_journal (entry_id, op, actor, event_id, ticket_id, amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entry_id) DO NOTHING
	`

	_, err := tx.Exec(ctx, query,
		entry.ID.String(), string(entry.Op), string(entry.Actor),
		entry.EventID, entry.TicketID, entry.Amount, entry.OccurredAt,
	)
	return err
}

func (r *ArchiveRepositoryImpl) upsertEventSnapshot(ctx context.Context, tx pgx.Tx, event *model.Event) error {
	query := `
		INSERT INTO event_snapshots (
			event_id, name, organizer, total_tickets, tickets_sold,
			price, date, is_canceled, metadata_uri, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (event_id) DO UPDATE SET
			tickets_sold = EXCLUDED.tickets_sold,
			is_canceled = EXCLUDED.is_canceled,
			updated_at = now()
	`

	_, err := tx.Exec(ctx, query,
		event.ID, event.Name, string(event.Organizer),
		event.TotalTickets, event.TicketsSold,
		event.Price, event.Date, event.IsCanceled, event.MetadataURI,
	)
	return err
}

func (r *ArchiveRepositoryImpl) upsertTicketSnapshot(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) error {
	query := `
		INSERT INTO ticket_snapshots (
			ticket_id, event_id, owner, is_used, transferred,
			purchase_price, has_insurance, insurance_claimed, metadata_uri, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (ticket_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			is_used = EXCLUDED.is_used,
			transferred = EXCLUDED.transferred,
			insurance_claimed = EXCLUDED.insurance_claimed,
			updated_at = now()
	`

	_, err := tx.Exec(ctx, query,
		ticket.ID, ticket.EventID, string(ticket.Owner),
		ticket.IsUsed, ticket.Transferred,
		ticket.PurchasePrice, ticket.HasInsurance, ticket.InsuranceClaimed, ticket.MetadataURI,
	)
	return err
}
