// Package idcache 提供按交易日分区的持久化 key→tag 缓存。
//
// 两个实例分别承担 EntrustID→UserTag 与 BrokerOrderID→UserTag 的映射：
// 下单时写入第一个；当某条回报同时携带两个 ID 时惰性写入第二个，
// 之后只带 BrokerOrderID 的成交回报即可透传解析回 UserTag。
package idcache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrorSink 接收缓存的非致命错误（只记日志，不中断订单流）
type ErrorSink func(message string)

// Cache 单个 key→tag 缓存实例。
// 打开失败时降级为纯内存模式：关联信息在重启后丢失，但下单不受影响。
type Cache struct {
	db         *badger.DB
	tradingDay uint32

	mu  sync.Mutex
	mem map[string]string // 降级模式存储；正常模式下作为读穿缓存
}

// Open 打开（或创建）某交易日的缓存。失败时通过 sink 报告并返回内存模式实例，
// 从不返回 nil。非本交易日的历史条目在打开时清除（按日轮换）。
func Open(path string, tradingDay uint32, sink ErrorSink) *Cache {
	c := &Cache{
		tradingDay: tradingDay,
		mem:        make(map[string]string),
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		report(sink, fmt.Sprintf("打开缓存 %s 失败，降级为内存模式: %v", path, err))
		return c
	}
	c.db = db
	c.dropStaleDays(sink)
	return c
}

// Close 关闭底层存储
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Get 查询 tag，不存在返回空串
func (c *Cache) Get(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if tag, ok := c.mem[key]; ok {
		return tag
	}
	if c.db == nil {
		return ""
	}

	var out string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.dayKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return ""
	}
	if out != "" {
		c.mem[key] = out
	}
	return out
}

// Put 写入或更新 (key, tag)。ttl 为 0 表示随交易日轮换清理。
// 写盘失败只通过 sink 报告，调用方不受影响。
func (c *Cache) Put(key, tag string, ttl time.Duration, sink ErrorSink) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem[key] = tag
	if c.db == nil {
		return
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(c.dayKey(key), []byte(tag))
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		report(sink, fmt.Sprintf("缓存写入失败 key=%s: %v", key, err))
	}
}

// dayKey 按交易日命名空间组织 key
func (c *Cache) dayKey(key string) []byte {
	return []byte(fmt.Sprintf("%d/%s", c.tradingDay, key))
}

// dropStaleDays 清除不属于当前交易日的条目
func (c *Cache) dropStaleDays(sink ErrorSink) {
	prefix := []byte(fmt.Sprintf("%d/", c.tradingDay))
	err := c.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().KeyCopy(nil)
			if !hasPrefix(k, prefix) {
				stale = append(stale, k)
			}
		}
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		report(sink, fmt.Sprintf("清理历史交易日条目失败: %v", err))
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

func report(sink ErrorSink, msg string) {
	if sink != nil {
		sink(msg)
	}
}
