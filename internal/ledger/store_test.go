package ledger_test

import (
	"errors"
	"testing"

	"go-ticket-ledger/internal/ledger"
	"go-ticket-ledger/internal/model"
	apperrors "go-ticket-ledger/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCommit(t *testing.T) {
	store := ledger.NewStore()

	t.Run("Update Commits On Nil Error", func(t *testing.T) {
		err := store.Update(func(tx *ledger.Txn) error {
			tx.PutEvent(&model.Event{ID: tx.NextEventID(), Name: "a", Organizer: "org", TotalTickets: 10, Price: 50000})
			return nil
		})
		require.NoError(t, err)

		err = store.View(func(tx *ledger.Txn) error {
			e, err := tx.Event(1)
			require.NoError(t, err)
			assert.Equal(t, "a", e.Name)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Update Discards On Error", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.Update(func(tx *ledger.Txn) error {
			// 配了 id、寫了記錄，但整筆交易失敗
			tx.PutEvent(&model.Event{ID: tx.NextEventID(), Name: "ghost"})
			tx.CreditInsurancePool(999)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		err = store.View(func(tx *ledger.Txn) error {
			// 寫入被丟棄
			_, err := tx.Event(2)
			assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
			assert.Equal(t, uint64(0), tx.InsurancePool())
			// 計數器沒有前進：下一個配發的 id 仍是 2
			return nil
		})
		require.NoError(t, err)

		err = store.Update(func(tx *ledger.Txn) error {
			assert.Equal(t, uint64(2), tx.NextEventID())
			return errors.New("discard")
		})
		assert.Error(t, err)
	})
}

func TestStoreCopyOnWrite(t *testing.T) {
	store := ledger.NewStore()

	require.NoError(t, store.Update(func(tx *ledger.Txn) error {
		tx.PutEvent(&model.Event{ID: tx.NextEventID(), Name: "a", TotalTickets: 5})
		return nil
	}))

	t.Run("Read Returns A Private Copy", func(t *testing.T) {
		// 沒有 PutEvent 的修改不會外洩到 committed state
		require.NoError(t, store.View(func(tx *ledger.Txn) error {
			e, err := tx.Event(1)
			require.NoError(t, err)
			e.TicketsSold = 99
			return nil
		}))

		require.NoError(t, store.View(func(tx *ledger.Txn) error {
			e, err := tx.Event(1)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), e.TicketsSold)
			return nil
		}))
	})

	t.Run("Staged Write Visible Within Transaction", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx *ledger.Txn) error {
			e, err := tx.Event(1)
			require.NoError(t, err)
			e.TicketsSold = 3
			tx.PutEvent(e)

			again, err := tx.Event(1)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), again.TicketsSold)
			return nil
		}))
	})

	t.Run("Event Ticket Index Is Copied", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx *ledger.Txn) error {
			tx.AppendEventTicket(1, 10)
			tx.AppendEventTicket(1, 11)
			return nil
		}))

		require.NoError(t, store.View(func(tx *ledger.Txn) error {
			ids := tx.EventTickets(1)
			ids[0] = 999 // 呼叫端改副本
			return nil
		}))

		require.NoError(t, store.View(func(tx *ledger.Txn) error {
			assert.Equal(t, []uint64{10, 11}, tx.EventTickets(1))
			return nil
		}))
	})
}

func TestStoreCounters(t *testing.T) {
	store := ledger.NewStore()

	t.Run("IDs Start At One And Never Reuse", func(t *testing.T) {
		var first, second uint64
		require.NoError(t, store.Update(func(tx *ledger.Txn) error {
			first = tx.NextTicketID()
			second = tx.NextTicketID()
			return nil
		}))
		assert.Equal(t, uint64(1), first)
		assert.Equal(t, uint64(2), second)

		require.NoError(t, store.Update(func(tx *ledger.Txn) error {
			assert.Equal(t, uint64(3), tx.NextTicketID())
			return nil
		}))
	})
}

func TestInsurancePoolAggregate(t *testing.T) {
	store := ledger.NewStore()

	require.NoError(t, store.Update(func(tx *ledger.Txn) error {
		tx.CreditInsurancePool(2500)
		return nil
	}))

	t.Run("Debit Saturates At Zero", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx *ledger.Txn) error {
			tx.DebitInsurancePool(50000)
			return nil
		}))

		require.NoError(t, store.View(func(tx *ledger.Txn) error {
			assert.Equal(t, uint64(0), tx.InsurancePool())
			return nil
		}))
	})
}
