package builder

import (
	"path/filepath"
	"testing"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/contracts"
	"github.com/atpbot/goatp/internal/domain"
	"github.com/atpbot/goatp/internal/idcache"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()

	svc := contracts.NewStaticService()
	svc.Add(&contracts.ContractInfo{Code: "600000", Exchange: "SSE", Name: "浦发银行"})
	svc.Add(&contracts.ContractInfo{Code: "000001", Exchange: "SZSE", Name: "平安银行"})

	dir := t.TempDir()
	eid := idcache.Open(filepath.Join(dir, "eid"), 20240102, nil)
	oid := idcache.Open(filepath.Join(dir, "oid"), 20240102, nil)
	t.Cleanup(func() {
		eid.Close()
		oid.Close()
	})

	return &Builder{
		Contracts:  svc,
		EIDCache:   eid,
		OIDCache:   oid,
		User:       "u1",
		TradingDay: 20240102,
	}
}

func TestEntrustIDRoundtrip(t *testing.T) {
	id := GenEntrustID("u1", 20240102, 12345)
	if id != "u1#20240102#12345" {
		t.Fatalf("委托号格式不对: %s", id)
	}
	seq, ok := ExtractEntrustID(id)
	if !ok || seq != 12345 {
		t.Fatalf("解析委托号失败: seq=%d ok=%v", seq, ok)
	}
	if _, ok := ExtractEntrustID("garbage"); ok {
		t.Error("非法委托号不应解析成功")
	}
}

func TestOrderFromAckScaling(t *testing.T) {
	b := newTestBuilder(t)
	b.EIDCache.Put("u1#20240102#7", "tag-7", 0, nil)

	ack := &atp.OrderStatusAck{
		SecurityID:   "600000",
		MarketID:     atp.MarketIDShangHai,
		OrdStatus:    atp.OrdStatusNew,
		Price:        100000, // 10.00 元
		OrderQty:     100,    // 1 股
		LeavesQty:    100,
		Side:         atp.SideBuy,
		ClientSeqID:  7,
		ClOrdNo:      9001,
		TransactTime: 20240102093000500,
	}

	o := b.OrderFromAck(ack)
	if o == nil {
		t.Fatal("回报不应被丢弃")
	}
	if o.State != domain.OrderStateSubmitting {
		t.Errorf("状态应为 Submitting，实际 %v", o.State)
	}
	if o.Volume != 1 {
		t.Errorf("数量应为 1，实际 %v", o.Volume)
	}
	if o.Price != 10.0 {
		t.Errorf("价格应为 10.00，实际 %v", o.Price)
	}
	if o.VolLeft != 1 || o.VolTraded != 0 {
		t.Errorf("剩余/成交数量不对: left=%v traded=%v", o.VolLeft, o.VolTraded)
	}
	if o.OrderDate != 20240102 {
		t.Errorf("订单日期应为 20240102，实际 %d", o.OrderDate)
	}
	if o.EntrustID != "u1#20240102#7" {
		t.Errorf("委托号不对: %s", o.EntrustID)
	}
	if o.UserTag != "tag-7" {
		t.Errorf("UserTag 应解析为 tag-7，实际 %s", o.UserTag)
	}
	if o.OrderID != "9001" {
		t.Errorf("券商委托号应为 9001，实际 %s", o.OrderID)
	}
	// 两个 ID 同时出现时应回填 BrokerOrderID 缓存
	if got := b.OIDCache.Get("9001"); got != "tag-7" {
		t.Errorf("BrokerOrderID 缓存未回填: %s", got)
	}
}

func TestOrderFromAckErrorStatus(t *testing.T) {
	b := newTestBuilder(t)

	ack := &atp.OrderStatusAck{
		SecurityID:  "600000",
		MarketID:    atp.MarketIDShangHai,
		OrdStatus:   atp.OrdStatusReject,
		OrderQty:    100,
		Side:        atp.SideBuy,
		ClientSeqID: 8,
	}
	o := b.OrderFromAck(ack)
	if o == nil {
		t.Fatal("回报不应被丢弃")
	}
	if !o.IsError {
		t.Error("Reject 状态应置错误标记")
	}
	if o.State != domain.OrderStateCanceled {
		t.Errorf("错误订单状态应强制为 Canceled，实际 %v", o.State)
	}
}

func TestOrderFromAckUnknownContract(t *testing.T) {
	b := newTestBuilder(t)

	ack := &atp.OrderStatusAck{
		SecurityID: "999999",
		MarketID:   atp.MarketIDShangHai,
	}
	if o := b.OrderFromAck(ack); o != nil {
		t.Error("未知合约的回报应被丢弃")
	}
	if e := b.EntrustFromAck(ack); e != nil {
		t.Error("未知合约的拒单回报应被丢弃")
	}
}

func TestTradeFromERViaOIDCache(t *testing.T) {
	b := newTestBuilder(t)
	b.OIDCache.Put("9001", "tag-7", 0, nil)

	er := &atp.CashAuctionTradeER{
		SecurityID:       "600000",
		MarketID:         atp.MarketIDShangHai,
		ClOrdNo:          9001,
		ExecID:           "E1",
		LastPx:           100000, // 10.00 元
		LastQty:          200,    // 2 股
		TotalValueTraded: 200000, // 20.00 元，1/10000 口径
		Side:             atp.SideBuy,
		TransactTime:     20240102093001000,
	}

	tr := b.TradeFromER(er)
	if tr == nil {
		t.Fatal("成交回报不应被丢弃")
	}
	if tr.Volume != 2 {
		t.Errorf("成交数量应为 2，实际 %v", tr.Volume)
	}
	if tr.Price != 10.0 {
		t.Errorf("成交价应为 10.00，实际 %v", tr.Price)
	}
	if tr.Amount != 20.0 {
		t.Errorf("成交金额应为 20.00，实际 %v", tr.Amount)
	}
	if tr.UserTag != "tag-7" {
		t.Errorf("UserTag 应经 BrokerOrderID 缓存解析为 tag-7，实际 %s", tr.UserTag)
	}
	if tr.RefOrder != "9001" {
		t.Errorf("关联委托号应为 9001，实际 %s", tr.RefOrder)
	}
}

func TestTradeFromQueryUnitAmountScale(t *testing.T) {
	b := newTestBuilder(t)

	unit := &atp.TradeUnit{
		SecurityID:       "000001",
		MarketID:         atp.MarketIDShenZhen,
		OrderID:          8801,
		ExecID:           "E2",
		LastPx:           105000, // 10.50 元
		LastQty:          300,    // 3 股
		TotalValueTraded: 3150,   // 31.50 元，查询口径是 1/100
		Side:             atp.SideSell,
	}
	tr := b.TradeFromQueryUnit(unit)
	if tr == nil {
		t.Fatal("成交查询行不应被丢弃")
	}
	if tr.Amount != 31.5 {
		t.Errorf("查询口径成交金额应为 31.50，实际 %v", tr.Amount)
	}
	if tr.Direction != domain.DirectionShort {
		t.Errorf("卖出方向应为 Short，实际 %v", tr.Direction)
	}
}

func TestResolveOrderTagFallback(t *testing.T) {
	b := newTestBuilder(t)

	ack := &atp.OrderStatusAck{
		SecurityID:  "600000",
		MarketID:    atp.MarketIDShangHai,
		OrdStatus:   atp.OrdStatusNew,
		OrderQty:    100,
		LeavesQty:   100,
		Side:        atp.SideBuy,
		ClientSeqID: 99,
	}
	o := b.OrderFromAck(ack)
	if o == nil {
		t.Fatal("回报不应被丢弃")
	}
	// 缓存全部未命中时 UserTag 兜底为委托号本身
	if o.UserTag != o.EntrustID {
		t.Errorf("UserTag 兜底值应为委托号，实际 %s", o.UserTag)
	}
}

func TestUnscale(t *testing.T) {
	if got := UnscalePrice(10.0); got != 100000 {
		t.Errorf("UnscalePrice(10.0) = %d, 期望 100000", got)
	}
	if got := UnscaleQty(2); got != 200 {
		t.Errorf("UnscaleQty(2) = %d, 期望 200", got)
	}
	// 浮点脏值也要落在正确的整数档位
	if got := UnscalePrice(10.15); got != 101500 {
		t.Errorf("UnscalePrice(10.15) = %d, 期望 101500", got)
	}
}

func TestAccountFromFundResult(t *testing.T) {
	a := AccountFromFundResult(&atp.FundQueryResult{
		LeavesValue:     1000000000, // 100000.00 元
		InitLeavesValue: 900000000,
		AvailableTAll:   500000000,
	})
	if a.Balance != 100000 {
		t.Errorf("余额应为 100000，实际 %v", a.Balance)
	}
	if a.PreBalance != 90000 {
		t.Errorf("昨日余额应为 90000，实际 %v", a.PreBalance)
	}
	if a.Available != 50000 {
		t.Errorf("可用资金应为 50000，实际 %v", a.Available)
	}
	if a.Currency != "CNY" {
		t.Errorf("币种应为 CNY，实际 %s", a.Currency)
	}
}

func TestPositionFromShareUnit(t *testing.T) {
	b := newTestBuilder(t)

	p := b.PositionFromShareUnit(&atp.ShareUnit{
		SecurityID:   "600000",
		MarketID:     atp.MarketIDShangHai,
		InitQty:      1000, // 10 股
		AvailableQty: 500,  // 5 股
		CostPrice:    1050, // 10.50 元，1/100 口径
		MarketValue:  1050000,
		ProfitLoss:   50000,
	})
	if p == nil {
		t.Fatal("持仓行不应被丢弃")
	}
	if p.PrePosition != 10 {
		t.Errorf("昨仓应为 10，实际 %v", p.PrePosition)
	}
	if p.NewPosition != 5 {
		t.Errorf("可用仓应为 5，实际 %v", p.NewPosition)
	}
	if p.AvgPrice != 10.5 {
		t.Errorf("成本价应为 10.50，实际 %v", p.AvgPrice)
	}
}
