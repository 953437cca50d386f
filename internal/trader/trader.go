// Package trader 是交易网关会话的编排层：维护登录状态机、
// 生成请求序号与委托号、登记回报同步游标，并把网关回调
// 归一化后经分发器推给宿主。
package trader

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/builder"
	"github.com/atpbot/goatp/internal/contracts"
	"github.com/atpbot/goatp/internal/dispatch"
	"github.com/atpbot/goatp/internal/domain"
	"github.com/atpbot/goatp/internal/idcache"
	"github.com/atpbot/goatp/internal/journal"
	"github.com/atpbot/goatp/internal/translate"
)

var log = logrus.WithField("component", "trader")

// State 会话状态
type State int32

const (
	StateNotLoggedIn State = iota
	StateLoggingIn
	StateReady
	StateLoginFailed
)

func (s State) String() string {
	switch s {
	case StateNotLoggedIn:
		return "not_logged_in"
	case StateLoggingIn:
		return "logging_in"
	case StateReady:
		return "ready"
	case StateLoginFailed:
		return "login_failed"
	default:
		return "unknown"
	}
}

// Sink 宿主回调。所有回调都在分发器的工作协程上按序触发。
type Sink interface {
	// OnEvent 连接层事件，code 为 0 表示正常
	OnEvent(ev domain.EventType, code int32)
	// OnLoginResult 登录结果；成功时带交易日
	OnLoginResult(ok bool, msg string, tradingDay uint32)
	// OnRspEntrust 委托/撤单被拒。isCancel 区分撤单拒绝与下单拒绝
	OnRspEntrust(e *domain.Entrust, err *domain.TradingError, isCancel bool)
	OnPushOrder(o *domain.Order)
	OnPushTrade(t *domain.Trade)
	OnRspAccount(a *domain.AccountInfo)
	OnRspOrders(orders []*domain.Order)
	OnRspTrades(trades []*domain.Trade)
	OnRspPositions(positions []*domain.PositionItem)
}

// Config 交易会话配置
type Config struct {
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	CustID        string `yaml:"cust_id"`
	FundAccountID string `yaml:"fund_account_id"`
	AccountID     string `yaml:"account_id"`
	BranchID      string `yaml:"branch_id"`

	// Locations 网关节点地址，依次尝试
	Locations []string `yaml:"locations"`

	// DataDir 持久化目录（ID 缓存、回报流水）
	DataDir string `yaml:"data_dir"`

	OrderWay          byte   `yaml:"order_way"`
	ClientFeatureCode string `yaml:"client_feature_code"`

	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	ReconnectTime     int           `yaml:"reconnect_time"`
	// QuickMode 快速登录（不同步历史回报）
	QuickMode bool `yaml:"quick_mode"`
}

// Trader 交易网关会话编排器，实现 atp.CallbackSink
type Trader struct {
	cfg  Config
	api  atp.TradeAPI
	sink Sink

	contracts contracts.Service
	disp      *dispatch.Dispatcher
	jnl       *journal.Journal

	state atomic.Int32

	// 请求序号与委托序号按会话独立计数，
	// 初值用启动时间播种保证跨进程重启不回退
	reqID  atomic.Uint32
	ordRef atomic.Uint32

	tradingDay atomic.Uint32

	// reportSync 回报同步游标：分区号 -> 已接收的最大序号。
	// 读写都必须持锁：网关回调线程写，重连快照读。
	syncMu     sync.Mutex
	reportSync map[int8]int64

	cacheMu sync.Mutex
	eid     *idcache.Cache
	oid     *idcache.Cache
	bld     *builder.Builder

	sessionID string
	closeCh   chan struct{}
	closeOnce sync.Once
}

// New 创建交易会话（未连接）
func New(cfg Config, api atp.TradeAPI, svc contracts.Service, jnl *journal.Journal, sink Sink) *Trader {
	t := &Trader{
		cfg:        cfg,
		api:        api,
		sink:       sink,
		contracts:  svc,
		jnl:        jnl,
		disp:       dispatch.New(),
		reportSync: make(map[int8]int64),
		closeCh:    make(chan struct{}),
	}
	seed := makeRefSeed(time.Now())
	t.reqID.Store(seed)
	t.ordRef.Store(seed)
	return t
}

// makeRefSeed 用启动时刻播种序号：自 2022-01-01 起的秒数放大 100 倍，
// 每秒让出 100 个序号空间，重启后的新会话序号必然越过上一个会话用过的区间。
func makeRefSeed(now time.Time) uint32 {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.Local)
	return uint32(now.Sub(base)/time.Second) * 100
}

func (t *Trader) nextReqID() uint32 {
	return t.reqID.Add(1)
}

func (t *Trader) nextOrdRef() uint32 {
	return t.ordRef.Add(1)
}

// Status 当前会话状态
func (t *Trader) Status() State {
	return State(t.state.Load())
}

// TradingDay 当前交易日，登录成功前为 0
func (t *Trader) TradingDay() uint32 {
	return t.tradingDay.Load()
}

// Connect 启动分发器并发起网关连接。
// 登录在连接建立回调（OnLogin）里自动发起。
func (t *Trader) Connect(ctx context.Context) error {
	if !t.state.CompareAndSwap(int32(StateNotLoggedIn), int32(StateLoggingIn)) &&
		!t.state.CompareAndSwap(int32(StateLoginFailed), int32(StateLoggingIn)) {
		return domain.NewError(domain.ErrNotReady, "会话状态 %s 不允许发起连接", t.Status())
	}

	t.disp.Start(ctx)
	t.sessionID = uuid.New().String()

	prop := &atp.ConnectProperty{
		User:              t.cfg.User,
		Password:          t.cfg.Password,
		Locations:         t.cfg.Locations,
		HeartbeatInterval: t.cfg.HeartbeatInterval,
		ConnectTimeout:    t.cfg.ConnectTimeout,
		ReconnectTime:     t.cfg.ReconnectTime,
		ClientName:        "goatp",
		ClientVersion:     "1.0.0",
		SessionID:         t.sessionID,
		ReportSync:        t.snapshotSync,
		Mode:              0,
	}
	if t.cfg.QuickMode {
		prop.Mode = 1
	}

	log.WithFields(logrus.Fields{
		"user":       t.cfg.User,
		"session_id": t.sessionID,
		"locations":  t.cfg.Locations,
	}).Info("发起网关连接")

	if err := t.api.Connect(prop, t); err != nil {
		t.state.Store(int32(StateNotLoggedIn))
		return fmt.Errorf("连接网关失败: %w", err)
	}
	return nil
}

// snapshotSync 取回报同步游标快照；传输层每次建连（含内部重连）时调用
func (t *Trader) snapshotSync() map[int8]int64 {
	t.syncMu.Lock()
	defer t.syncMu.Unlock()

	out := make(map[int8]int64, len(t.reportSync))
	for p, idx := range t.reportSync {
		out[p] = idx
	}
	return out
}

// markSync 登记一条回报的同步游标
func (t *Trader) markSync(partition int8, index int64) {
	t.syncMu.Lock()
	t.reportSync[partition] = index
	t.syncMu.Unlock()
}

// Release 登出并关闭会话。等待底层连接完全关闭，
// 超出 ctx 期限时放弃等待直接回收资源。
func (t *Trader) Release(ctx context.Context) error {
	if t.Status() == StateReady {
		req := &atp.ReqCustLogout{
			FundAccountID:     t.cfg.FundAccountID,
			ClientSeqID:       t.nextReqID(),
			ClientFeatureCode: t.cfg.ClientFeatureCode,
		}
		if err := t.api.ReqCustLogout(req); err != nil {
			log.WithError(err).Warn("发送登出请求失败")
		}
	}

	err := t.api.Close()

	select {
	case <-t.closeCh:
	case <-ctx.Done():
		log.Warn("等待连接关闭超时，强制回收")
	}

	t.disp.Stop()
	t.state.Store(int32(StateNotLoggedIn))

	t.cacheMu.Lock()
	if t.eid != nil {
		t.eid.Close()
		t.eid = nil
	}
	if t.oid != nil {
		t.oid.Close()
		t.oid = nil
	}
	t.bld = nil
	t.cacheMu.Unlock()
	return err
}

// GenEntrustID 为即将下出的委托生成本地委托号
func (t *Trader) GenEntrustID() string {
	return builder.GenEntrustID(t.cfg.User, t.tradingDay.Load(), t.nextOrdRef())
}

// cacheErrSink ID 缓存的错误汇报出口
func (t *Trader) cacheErrSink(msg string) {
	log.Warn(msg)
}

// OrderInsert 下单。EntrustID 为空时自动生成；
// UserTag 非空时先写入关联缓存，再发往网关。
func (t *Trader) OrderInsert(e *domain.Entrust) error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪，不能下单")
	}

	ordType, err := translate.OrdTypeFor(e.PriceType, e.OrderFlag)
	if err != nil {
		return err
	}

	if e.EntrustID == "" {
		e.EntrustID = t.GenEntrustID()
	}
	seq, ok := builder.ExtractEntrustID(e.EntrustID)
	if !ok {
		return domain.NewError(domain.ErrProtocol, "非法委托号: %s", e.EntrustID)
	}

	if e.UserTag != "" {
		t.cacheMu.Lock()
		if t.eid != nil {
			t.eid.Put(e.EntrustID, e.UserTag, 0, t.cacheErrSink)
		}
		t.cacheMu.Unlock()
	}

	side := atp.SideBuy
	if e.Direction == domain.DirectionShort && e.Offset == domain.OffsetOpen ||
		e.Direction == domain.DirectionLong && e.Offset == domain.OffsetClose {
		side = atp.SideSell
	}

	req := &atp.ReqCashAuctionOrder{
		SecurityID:        e.Code,
		MarketID:          atp.MarketIDOf(e.Exchange),
		CustID:            t.cfg.CustID,
		FundAccountID:     t.cfg.FundAccountID,
		AccountID:         t.cfg.AccountID,
		Side:              side,
		OrderType:         ordType,
		Price:             builder.UnscalePrice(e.Price),
		OrderQty:          builder.UnscaleQty(e.Volume),
		ClientSeqID:       seq,
		OrderWay:          t.cfg.OrderWay,
		ClientFeatureCode: t.cfg.ClientFeatureCode,
		Password:          t.cfg.Password,
		UserInfo:          e.EntrustID,
	}

	log.WithFields(logrus.Fields{
		"entrust_id": e.EntrustID,
		"code":       e.Code,
		"price":      e.Price,
		"volume":     e.Volume,
	}).Info("下单")

	if err := t.api.ReqCashAuctionOrder(req); err != nil {
		return domain.NewError(domain.ErrOrderInsert, "下单请求发送失败: %v", err)
	}
	return nil
}

// OrderCancel 按券商委托号撤单
func (t *Trader) OrderCancel(orderID, exchg string) error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪，不能撤单")
	}

	clOrdNo, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return domain.NewError(domain.ErrProtocol, "非法券商委托号: %s", orderID)
	}

	req := &atp.ReqCancelOrder{
		MarketID:      atp.MarketIDOf(exchg),
		CustID:        t.cfg.CustID,
		FundAccountID: t.cfg.FundAccountID,
		AccountID:     t.cfg.AccountID,
		Password:      t.cfg.Password,
		ClientSeqID:   t.nextReqID(),
		OrderWay:      t.cfg.OrderWay,
		OrigClOrdNo:   clOrdNo,
	}

	log.WithField("order_id", orderID).Info("撤单")

	if err := t.api.ReqCancelOrder(req); err != nil {
		return domain.NewError(domain.ErrOrderCancel, "撤单请求发送失败: %v", err)
	}
	return nil
}

// QueryAccount 查询资金
func (t *Trader) QueryAccount() error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪")
	}
	return t.api.ReqFundQuery(&atp.ReqFundQuery{
		CustID:        t.cfg.CustID,
		FundAccountID: t.cfg.FundAccountID,
		AccountID:     t.cfg.AccountID,
		ClientSeqID:   t.nextReqID(),
		Password:      t.cfg.Password,
		Currency:      "CNY",
	})
}

// QueryPositions 查询持仓
func (t *Trader) QueryPositions() error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪")
	}
	return t.api.ReqShareQuery(&atp.ReqShareQuery{
		CustID:        t.cfg.CustID,
		FundAccountID: t.cfg.FundAccountID,
		AccountID:     t.cfg.AccountID,
		ClientSeqID:   t.nextReqID(),
		Password:      t.cfg.Password,
	})
}

// QueryOrders 查询当日订单
func (t *Trader) QueryOrders() error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪")
	}
	return t.api.ReqOrderQuery(&atp.ReqOrderQuery{
		CustID:        t.cfg.CustID,
		FundAccountID: t.cfg.FundAccountID,
		AccountID:     t.cfg.AccountID,
		ClientSeqID:   t.nextReqID(),
		Password:      t.cfg.Password,
	})
}

// QueryTrades 查询当日成交
func (t *Trader) QueryTrades() error {
	if t.Status() != StateReady {
		return domain.NewError(domain.ErrNotReady, "会话未就绪")
	}
	return t.api.ReqTradeOrderQuery(&atp.ReqTradeOrderQuery{
		CustID:        t.cfg.CustID,
		FundAccountID: t.cfg.FundAccountID,
		AccountID:     t.cfg.AccountID,
		ClientSeqID:   t.nextReqID(),
		Password:      t.cfg.Password,
	})
}

// openCaches 登录成功后按交易日打开 ID 关联缓存并创建归一化器
func (t *Trader) openCaches(tradingDay uint32) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()

	if t.eid != nil {
		t.eid.Close()
	}
	if t.oid != nil {
		t.oid.Close()
	}

	t.eid = idcache.Open(filepath.Join(t.cfg.DataDir, t.cfg.User+"_eid"), tradingDay, t.cacheErrSink)
	t.oid = idcache.Open(filepath.Join(t.cfg.DataDir, t.cfg.User+"_oid"), tradingDay, t.cacheErrSink)
	t.bld = &builder.Builder{
		Contracts:  t.contracts,
		EIDCache:   t.eid,
		OIDCache:   t.oid,
		User:       t.cfg.User,
		TradingDay: tradingDay,
		ErrSink:    t.cacheErrSink,
	}
}

// builderRef 取当前归一化器，未登录时为 nil
func (t *Trader) builderRef() *builder.Builder {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	return t.bld
}
