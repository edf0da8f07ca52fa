package worker

import (
	"context"

	"go-ticket-ledger/internal/queue"
	"go-ticket-ledger/internal/repository"
	"go-ticket-ledger/pkg/logger"

	"go.uber.org/zap"
)

type ArchiveWorker interface {
	// 訂閱異動紀錄隊列
	Start(ctx context.Context) error
}

type ArchiveWorkerImpl struct {
	repository repository.ArchiveRepository
	queue      queue.JournalQueue
}

func NewArchiveWorker(repository repository.ArchiveRepository, queue queue.JournalQueue) ArchiveWorker {
	return &ArchiveWorkerImpl{
		repository: repository,
		queue:      queue,
	}
}

func (w *ArchiveWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEntries(ctx)
	if err != nil {
		return err
	}

	log := logger.WithComponent("archive_worker")

	go func() {
		for msg := range msgs {
			// 把 commit 後的異動搬進 Postgres；失敗就 Nack 重回隊列
			err := w.repository.RecordEntry(ctx, msg.Data)
			if err != nil {
				log.Warn("failed to archive journal entry",
					zap.String("entry_id", msg.Data.ID.String()),
					zap.String("op", string(msg.Data.Op)),
					zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
