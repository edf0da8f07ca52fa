package queue

import (
	"context"

	"go-ticket-ledger/internal/model"
	"go-ticket-ledger/pkg/metrics"
)

type Delivery struct {
	Data *model.JournalEntry
	Ack  func()
	Nack func(requeue bool)
}

type JournalQueue interface {
	// 發送異動紀錄到隊列
	PublishEntry(ctx context.Context, entry *model.JournalEntry) error
	// 訂閱異動紀錄隊列
	SubscribeEntries(ctx context.Context) (<-chan Delivery, error)
}

type JournalQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.JournalEntry
}

func NewJournalQueue(bufferSize int) JournalQueue {
	return &JournalQueueImpl{
		ch: make(chan *model.JournalEntry, bufferSize),
	}
}

func (q *JournalQueueImpl) PublishEntry(ctx context.Context, entry *model.JournalEntry) error {
	q.ch <- entry
	metrics.ArchiveLag.Set(float64(len(q.ch)))
	return nil
}

func (q *JournalQueueImpl) SubscribeEntries(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-q.ch:
				if !ok {
					return
				}
				metrics.ArchiveLag.Set(float64(len(q.ch)))

				// 將原始 entry 包裝成 Delivery 格式給 Worker
				out <- Delivery{
					Data: entry,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- entry // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
