package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventInventoryGate 搶購入口的快速擋板。
// 只做輔助性的提前拒絕，帳本仍是庫存的唯一權威：
// gate 放行但帳本判定售罄時，呼叫端要負責 ReleaseOne 回滾預留
type EventInventoryGate interface {
	// WarmUpInventory 預熱：活動建立時把庫存寫進 Redis
	WarmUpInventory(ctx context.Context, eventID uint64, stock uint64) error
	// ReserveOne 預留一張票，回傳 false 表示已售罄
	ReserveOne(ctx context.Context, eventID uint64) (bool, error)
	// ReleaseOne 回滾一張預留
	ReleaseOne(ctx context.Context, eventID uint64) error
	// CloseInventory 活動取消後清空庫存，讓後續購買直接被擋下
	CloseInventory(ctx context.Context, eventID uint64) error
}

type RedisEventInventoryGate struct {
	client *redis.Client
}

func NewRedisEventInventoryGate(client *redis.Client) EventInventoryGate {
	return &RedisEventInventoryGate{
		client: client,
	}
}

func (g *RedisEventInventoryGate) inventoryKey(eventID uint64) string {
	return fmt.Sprintf("event:%d:inventory", eventID)
}

func (g *RedisEventInventoryGate) WarmUpInventory(ctx context.Context, eventID uint64, stock uint64) error {
	return g.client.Set(ctx, g.inventoryKey(eventID), stock, 0).Err()
}

// ReserveOne 使用 Lua 腳本確保檢查與扣減的原子性
func (g *RedisEventInventoryGate) ReserveOne(ctx context.Context, eventID uint64) (bool, error) {
	script := `
		-- 1. 取得活動庫存
		local stock = redis.call('GET', KEYS[1])

		-- 2. 未預熱就放行，由帳本做最終判斷
		if not stock then
			return 1
		end

		-- 3. 檢查並扣減庫存
		if tonumber(stock) <= 0 then
			return -1
		end
		redis.call('DECR', KEYS[1])
		return 1
	`

	result, err := g.client.Eval(ctx, script, []string{g.inventoryKey(eventID)}).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (g *RedisEventInventoryGate) ReleaseOne(ctx context.Context, eventID uint64) error {
	script := `
		-- 只在庫存 key 存在時回補，避免憑空創造庫存
		if redis.call('EXISTS', KEYS[1]) == 1 then
			redis.call('INCR', KEYS[1])
		end
		return 'OK'
	`

	return g.client.Eval(ctx, script, []string{g.inventoryKey(eventID)}).Err()
}

func (g *RedisEventInventoryGate) CloseInventory(ctx context.Context, eventID uint64) error {
	return g.client.Set(ctx, g.inventoryKey(eventID), 0, 0).Err()
}

// NoopEventInventoryGate 全部放行，給測試或未啟用 Redis 的部署使用
type NoopEventInventoryGate struct{}

func NewNoopEventInventoryGate() EventInventoryGate {
	return &NoopEventInventoryGate{}
}

func (g *NoopEventInventoryGate) WarmUpInventory(ctx context.Context, eventID uint64, stock uint64) error {
	return nil
}

func (g *NoopEventInventoryGate) ReserveOne(ctx context.Context, eventID uint64) (bool, error) {
	return true, nil
}

func (g *NoopEventInventoryGate) ReleaseOne(ctx context.Context, eventID uint64) error {
	return nil
}

func (g *NoopEventInventoryGate) CloseInventory(ctx context.Context, eventID uint64) error {
	return nil
}
