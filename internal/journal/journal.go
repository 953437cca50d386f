// Package journal 把订单/成交回报落地到 SQLite，供盘后对账。
// 落地失败只记日志，绝不影响回报推送链路。
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/atpbot/goatp/internal/domain"
)

var log = logrus.WithField("component", "journal")

// Journal 回报流水库
type Journal struct {
	db *sql.DB
}

// Open 打开（必要时创建）流水库并完成建表
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite：单连接更稳定

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS orders (
  entrust_id TEXT NOT NULL,
  order_id TEXT,
  code TEXT NOT NULL,
  exchange TEXT NOT NULL,
  direction INTEGER NOT NULL,
  offset INTEGER NOT NULL,
  volume REAL NOT NULL,
  price REAL NOT NULL,
  vol_traded REAL NOT NULL,
  vol_left REAL NOT NULL,
  state INTEGER NOT NULL,
  is_error INTEGER NOT NULL DEFAULT 0,
  state_msg TEXT,
  user_tag TEXT,
  order_date INTEGER NOT NULL,
  order_time INTEGER NOT NULL,
  recorded_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_entrust ON orders(entrust_id);`,
		`
CREATE TABLE IF NOT EXISTS trades (
  trade_id TEXT NOT NULL,
  ref_order TEXT NOT NULL,
  code TEXT NOT NULL,
  exchange TEXT NOT NULL,
  direction INTEGER NOT NULL,
  volume REAL NOT NULL,
  price REAL NOT NULL,
  amount REAL NOT NULL,
  user_tag TEXT,
  trade_date INTEGER NOT NULL,
  trade_time INTEGER NOT NULL,
  recorded_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ref_order ON trades(ref_order);`,
		`
CREATE TABLE IF NOT EXISTS entrust_errors (
  entrust_id TEXT NOT NULL,
  code TEXT,
  exchange TEXT,
  err_code INTEGER NOT NULL,
  err_msg TEXT,
  is_cancel INTEGER NOT NULL DEFAULT 0,
  recorded_at TEXT NOT NULL
);`,
	}
	for _, s := range stmts {
		if _, err := j.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
	}
	return nil
}

// RecordOrder 落地一条订单回报
func (j *Journal) RecordOrder(o *domain.Order) {
	if j == nil || o == nil {
		return
	}
	_, err := j.db.Exec(`
INSERT INTO orders (entrust_id,order_id,code,exchange,direction,offset,volume,price,vol_traded,vol_left,state,is_error,state_msg,user_tag,order_date,order_time,recorded_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`, o.EntrustID, o.OrderID, o.Code, o.Exchange, o.Direction, o.Offset, o.Volume, o.Price,
		o.VolTraded, o.VolLeft, o.State, boolInt(o.IsError), o.StateMsg, o.UserTag,
		o.OrderDate, o.OrderTime, time.Now().Format(time.RFC3339Nano))
	if err != nil {
		log.WithError(err).Warn("订单流水落地失败")
	}
}

// RecordTrade 落地一条成交回报
func (j *Journal) RecordTrade(t *domain.Trade) {
	if j == nil || t == nil {
		return
	}
	_, err := j.db.Exec(`
INSERT INTO trades (trade_id,ref_order,code,exchange,direction,volume,price,amount,user_tag,trade_date,trade_time,recorded_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
`, t.TradeID, t.RefOrder, t.Code, t.Exchange, t.Direction, t.Volume, t.Price, t.Amount,
		t.UserTag, t.TradeDate, t.TradeTime, time.Now().Format(time.RFC3339Nano))
	if err != nil {
		log.WithError(err).Warn("成交流水落地失败")
	}
}

// RecordEntrustError 落地一条委托/撤单错误
func (j *Journal) RecordEntrustError(entrustID, code, exchg string, terr *domain.TradingError, isCancel bool) {
	if j == nil || terr == nil {
		return
	}
	_, err := j.db.Exec(`
INSERT INTO entrust_errors (entrust_id,code,exchange,err_code,err_msg,is_cancel,recorded_at)
VALUES (?,?,?,?,?,?,?)
`, entrustID, code, exchg, terr.Code, terr.Msg, boolInt(isCancel), time.Now().Format(time.RFC3339Nano))
	if err != nil {
		log.WithError(err).Warn("错误流水落地失败")
	}
}

// Close 关闭流水库
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
