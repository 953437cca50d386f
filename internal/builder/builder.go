// Package builder 把网关原始消息归一化为领域对象。
//
// 统一策略：
//   - 合约解析失败 ⇒ 整条消息丢弃（返回 nil），不报错；
//   - UserTag 先查 EntrustID 缓存，查不到再查 BrokerOrderID 缓存；
//   - 回报同时携带两个 ID 且 tag 可解析时，回填 BrokerOrderID 缓存，
//     打通之后只带 BrokerOrderID 的成交回报的关联链路。
package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/contracts"
	"github.com/atpbot/goatp/internal/domain"
	"github.com/atpbot/goatp/internal/idcache"
	"github.com/atpbot/goatp/internal/translate"
)

// Builder 消息归一化器
type Builder struct {
	Contracts  contracts.Service
	EIDCache   *idcache.Cache // EntrustID -> UserTag
	OIDCache   *idcache.Cache // BrokerOrderID -> UserTag
	User       string
	TradingDay uint32
	ErrSink    idcache.ErrorSink
}

// GenEntrustID 生成本地委托号：user#tradingDay#seq。
// 不使用会话号：每次登录会话号都会变化，跨重连就不唯一了。
func GenEntrustID(user string, tradingDay uint32, seq uint32) string {
	return fmt.Sprintf("%s#%d#%d", user, tradingDay, seq)
}

// ExtractEntrustID 从委托号中取回序号
func ExtractEntrustID(entrustID string) (uint32, bool) {
	idx := strings.LastIndexByte(entrustID, '#')
	if idx < 0 {
		return 0, false
	}
	seq, err := strconv.ParseUint(entrustID[idx+1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(seq), true
}

func (b *Builder) genEntrustID(seq uint32) string {
	return GenEntrustID(b.User, b.TradingDay, seq)
}

// EntrustFromAck 从拒单回报重建原始委托参数（仅拒单路径使用）
func (b *Builder) EntrustFromAck(ack *atp.OrderStatusAck) *domain.Entrust {
	exchg := atp.ExchangeOf(ack.MarketID)
	ct := b.Contracts.Get(ack.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	e := &domain.Entrust{
		Code:      ct.Code,
		Exchange:  ct.Exchange,
		Volume:    scaleQty(ack.OrderQty),
		Price:     scalePrice(ack.Price),
		Direction: translate.Direction(ack.Side, ack.PositionEffect),
		Offset:    translate.Offset(ack.PositionEffect),
		PriceType: translate.PriceType(ack.OrderType),
		OrderFlag: domain.OrderFlagNor,
		EntrustID: b.genEntrustID(ack.ClientSeqID),
	}

	if tag := b.EIDCache.Get(e.EntrustID); tag != "" {
		e.UserTag = tag
	}
	return e
}

// OrderFromAck 从订单状态回报构造归一化订单
func (b *Builder) OrderFromAck(ack *atp.OrderStatusAck) *domain.Order {
	exchg := atp.ExchangeOf(ack.MarketID)
	ct := b.Contracts.Get(ack.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	o := &domain.Order{
		Code:      ct.Code,
		Exchange:  ct.Exchange,
		Volume:    scaleQty(ack.OrderQty),
		Price:     scalePrice(ack.Price),
		Direction: translate.Side(ack.Side),
		Offset:    translate.Offset(ack.PositionEffect),
		PriceType: translate.PriceType(ack.OrderType),
		OrderFlag: domain.OrderFlagNor,
		VolTraded: scaleQty(ack.OrderQty - ack.LeavesQty),
		VolLeft:   scaleQty(ack.LeavesQty),
		State:     translate.OrderState(ack.OrdStatus),
		EntrustID: b.genEntrustID(ack.ClientSeqID),
	}

	date, hms := domain.SplitTransactTime(ack.TransactTime)
	o.OrderDate = date
	o.OrderTime = domain.MakeTime(date, hms)

	if translate.IsErrorStatus(ack.OrdStatus) {
		o.IsError = true
		o.State = domain.OrderStateCanceled
		o.StateMsg = ack.OrdRejReason
	}

	if ack.ClOrdNo != 0 {
		o.OrderID = strconv.FormatInt(ack.ClOrdNo, 10)
	}

	b.resolveOrderTag(o)
	return o
}

// OrderFromQueryUnit 从订单查询结果行构造归一化订单
func (b *Builder) OrderFromQueryUnit(unit *atp.OrderUnit) *domain.Order {
	exchg := atp.ExchangeOf(unit.MarketID)
	ct := b.Contracts.Get(unit.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	o := &domain.Order{
		Code:      ct.Code,
		Exchange:  ct.Exchange,
		Volume:    scaleQty(unit.OrderQty),
		Price:     scalePrice(unit.OrderPrice),
		Direction: translate.Side(unit.Side),
		PriceType: translate.PriceType(unit.OrdType),
		OrderFlag: domain.OrderFlagNor,
		VolTraded: scaleQty(unit.CumQty),
		VolLeft:   scaleQty(unit.LeavesQty),
		State:     translate.OrderState(unit.OrdStatus),
		EntrustID: b.genEntrustID(unit.ClientSeqID),
	}

	date, hms := domain.SplitTransactTime(unit.TransactTime)
	o.OrderDate = date
	o.OrderTime = domain.MakeTime(date, hms)

	if translate.IsErrorStatus(unit.OrdStatus) {
		o.IsError = true
		o.State = domain.OrderStateCanceled
		o.StateMsg = unit.OrdRejReason
	}

	if unit.ClOrdNo != 0 {
		o.OrderID = strconv.FormatInt(unit.ClOrdNo, 10)
	}

	b.resolveOrderTag(o)
	return o
}

// resolveOrderTag 解析 UserTag 并按需回填 BrokerOrderID 缓存
func (b *Builder) resolveOrderTag(o *domain.Order) {
	tag := b.EIDCache.Get(o.EntrustID)
	if tag == "" {
		tag = b.OIDCache.Get(o.OrderID)
	}
	if tag == "" {
		// 查不到时用 EntrustID 本身兜底，保证 UserTag 非空
		o.UserTag = o.EntrustID
		return
	}

	o.UserTag = tag
	if o.OrderID != "" {
		b.OIDCache.Put(strings.TrimSpace(o.OrderID), tag, 0, b.ErrSink)
	}
}

// TradeFromER 从成交回报构造归一化成交。
// 成交回报不携带 EntrustID，UserTag 只能经 BrokerOrderID 缓存解析。
func (b *Builder) TradeFromER(er *atp.CashAuctionTradeER) *domain.Trade {
	exchg := atp.ExchangeOf(er.MarketID)
	ct := b.Contracts.Get(er.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	t := &domain.Trade{
		Code:      ct.Code,
		Exchange:  ct.Exchange,
		TradeID:   er.ExecID,
		RefOrder:  strconv.FormatInt(er.ClOrdNo, 10),
		Volume:    scaleQty(er.LastQty),
		Price:     scalePrice(er.LastPx),
		Amount:    scaleAmount4(er.TotalValueTraded),
		Direction: translate.Side(er.Side),
	}

	date, hms := domain.SplitTransactTime(er.TransactTime)
	t.TradeDate = date
	t.TradeTime = domain.MakeTime(date, hms)

	if tag := b.OIDCache.Get(strings.TrimSpace(t.RefOrder)); tag != "" {
		t.UserTag = tag
	}
	return t
}

// TradeFromQueryUnit 从成交查询结果行构造归一化成交。
// 注意查询行的成交金额字段是 1/100 口径，与成交回报的 1/10000 不同。
func (b *Builder) TradeFromQueryUnit(unit *atp.TradeUnit) *domain.Trade {
	exchg := atp.ExchangeOf(unit.MarketID)
	ct := b.Contracts.Get(unit.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	t := &domain.Trade{
		Code:      ct.Code,
		Exchange:  ct.Exchange,
		TradeID:   unit.ExecID,
		RefOrder:  strconv.FormatInt(unit.OrderID, 10),
		Volume:    scaleQty(unit.LastQty),
		Price:     scalePrice(unit.LastPx),
		Amount:    scaleAmount2(unit.TotalValueTraded),
		Direction: translate.Side(unit.Side),
	}

	date, hms := domain.SplitTransactTime(unit.TransactTime)
	t.TradeDate = date
	t.TradeTime = domain.MakeTime(date, hms)

	if tag := b.OIDCache.Get(strings.TrimSpace(t.RefOrder)); tag != "" {
		t.UserTag = tag
	}
	return t
}

// AccountFromFundResult 资金查询结果 → 资金账户（1/10000 口径）
func AccountFromFundResult(msg *atp.FundQueryResult) *domain.AccountInfo {
	return &domain.AccountInfo{
		Currency:   "CNY",
		PreBalance: scaleAmount4(msg.InitLeavesValue),
		Balance:    scaleAmount4(msg.LeavesValue),
		Available:  scaleAmount4(msg.AvailableTAll),
	}
}

// PositionFromShareUnit 持仓行 → 持仓条目；合约解析失败返回 nil
func (b *Builder) PositionFromShareUnit(unit *atp.ShareUnit) *domain.PositionItem {
	exchg := atp.ExchangeOf(unit.MarketID)
	ct := b.Contracts.Get(unit.SecurityID, exchg)
	if ct == nil {
		return nil
	}

	return &domain.PositionItem{
		Code:         ct.Code,
		Exchange:     ct.Exchange,
		Currency:     ct.Currency,
		NewPosition:  scaleQty(unit.AvailableQty),
		PrePosition:  scaleQty(unit.InitQty),
		AvailNewPos:  0,
		AvailPrePos:  scaleQty(unit.InitQty),
		Margin:       scaleAmount4(unit.MarketValue),
		PositionCost: scaleAmount4(unit.MarketValue),
		DynProfit:    scaleAmount4(unit.ProfitLoss),
		AvgPrice:     scaleAmount2(unit.CostPrice),
	}
}
