package trader

import (
	"github.com/sirupsen/logrus"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/builder"
	"github.com/atpbot/goatp/internal/domain"
)

// atp.CallbackSink 实现。所有回调都在传输层的读协程上触发，
// 这里只做归一化和入队，宿主回调由分发器的工作协程执行。

func (t *Trader) OnLogin(reason string) {
	log.WithField("session_id", t.sessionID).Info("网关连接建立，发起登录")
	t.state.Store(int32(StateLoggingIn))

	req := &atp.ReqCustLogin{
		FundAccountID:     t.cfg.FundAccountID,
		Password:          t.cfg.Password,
		AccountID:         t.cfg.AccountID,
		BranchID:          t.cfg.BranchID,
		LoginMode:         atp.CustLoginModeFundAccountID,
		ClientSeqID:       t.nextReqID(),
		OrderWay:          t.cfg.OrderWay,
		ClientFeatureCode: t.cfg.ClientFeatureCode,
	}
	if err := t.api.ReqCustLogin(req); err != nil {
		log.WithError(err).Error("发送登录请求失败")
		t.state.Store(int32(StateLoginFailed))
		t.disp.Post(func() { t.sink.OnLoginResult(false, "发送登录请求失败: "+err.Error(), 0) })
	}
}

func (t *Trader) OnLogout(reason string) {
	log.WithField("reason", reason).Info("网关登出")
	t.disp.Post(func() { t.sink.OnEvent(domain.EventLogout, 0) })
}

func (t *Trader) OnConnectFailure(reason string) {
	log.WithField("reason", reason).Error("网关连接失败")
	t.state.Store(int32(StateNotLoggedIn))
	t.disp.Post(func() { t.sink.OnEvent(domain.EventConnect, -1) })
}

func (t *Trader) OnConnectTimeOut(reason string) {
	log.WithField("reason", reason).Error("网关连接超时")
	t.state.Store(int32(StateNotLoggedIn))
	t.disp.Post(func() { t.sink.OnEvent(domain.EventConnect, -1) })
}

func (t *Trader) OnHeartbeatTimeout(reason string) {
	log.WithField("reason", reason).Warn("网关心跳超时")
	t.disp.Post(func() { t.sink.OnEvent(domain.EventClose, -1) })
}

func (t *Trader) OnClosed(reason string) {
	log.WithField("reason", reason).Info("网关连接断开")
	// 断开即失效：重连窗口内不允许继续下单，重新登录前状态保持未登录
	t.state.Store(int32(StateNotLoggedIn))
	t.disp.Post(func() { t.sink.OnEvent(domain.EventClose, 0) })
}

func (t *Trader) OnEndOfConnection(reason string) {
	log.WithField("reason", reason).Info("网关连接结束")
	t.state.Store(int32(StateNotLoggedIn))
	t.closeOnce.Do(func() { close(t.closeCh) })
}

func (t *Trader) OnRspCustLoginResp(resp *atp.CustLoginResp) {
	if resp.PermissonErrorCode != 0 {
		log.WithFields(logrus.Fields{
			"code": resp.PermissonErrorCode,
			"info": resp.UserInfo,
		}).Error("登录被拒绝")
		t.state.Store(int32(StateLoginFailed))
		t.disp.Post(func() { t.sink.OnLoginResult(false, resp.UserInfo, 0) })
		return
	}

	day := domain.CurDate()
	t.tradingDay.Store(day)
	t.openCaches(day)
	t.state.Store(int32(StateReady))

	log.WithFields(logrus.Fields{
		"cust_id":     resp.CustID,
		"trading_day": day,
	}).Info("登录成功")

	t.disp.Post(func() { t.sink.OnLoginResult(true, "", day) })
}

func (t *Trader) OnRspCustLogoutResp(resp *atp.CustLogoutResp) {
	t.state.Store(int32(StateNotLoggedIn))
	t.disp.Post(func() { t.sink.OnEvent(domain.EventLogout, resp.PermissonErrorCode) })
}

func (t *Trader) OnRspOrderStatusInternalAck(ack *atp.OrderStatusAck) {
	t.handleOrderAck(ack)
}

func (t *Trader) OnRspOrderStatusAck(ack *atp.OrderStatusAck) {
	t.handleOrderAck(ack)
}

// handleOrderAck 内部确认和交易所确认走同一条路径：
// 先登记回报同步游标，再按是否被拒分流。
func (t *Trader) handleOrderAck(ack *atp.OrderStatusAck) {
	t.markSync(ack.Partition, ack.Index)

	bld := t.builderRef()
	if bld == nil {
		return
	}

	if ack.RejectReasonCode != atp.RejectReasonNormal {
		t.handleReject(bld, ack)
		return
	}

	o := bld.OrderFromAck(ack)
	if o == nil {
		log.WithField("security_id", ack.SecurityID).Warn("订单回报合约未识别，丢弃")
		return
	}

	t.jnl.RecordOrder(o)
	t.disp.Post(func() { t.sink.OnPushOrder(o) })
}

// handleReject 被拒回报：待撤状态下的拒绝是撤单拒绝，其余是下单拒绝
func (t *Trader) handleReject(bld *builder.Builder, ack *atp.OrderStatusAck) {
	e := bld.EntrustFromAck(ack)
	if e == nil {
		log.WithField("security_id", ack.SecurityID).Warn("拒单回报合约未识别，丢弃")
		return
	}

	isCancel := ack.OrdStatus == atp.OrdStatusWaitCancelled

	code := domain.ErrOrderInsert
	if isCancel {
		code = domain.ErrOrderCancel
	}
	terr := domain.NewError(code, "%s (reject_reason=%d)", ack.OrdRejReason, ack.RejectReasonCode)

	log.WithFields(logrus.Fields{
		"entrust_id": e.EntrustID,
		"is_cancel":  isCancel,
		"reason":     ack.OrdRejReason,
	}).Warn("委托被拒绝")

	t.jnl.RecordEntrustError(e.EntrustID, e.Code, e.Exchange, terr, isCancel)
	t.disp.Post(func() { t.sink.OnRspEntrust(e, terr, isCancel) })
}

func (t *Trader) OnRspCashAuctionTradeER(er *atp.CashAuctionTradeER) {
	t.markSync(er.Partition, er.Index)

	bld := t.builderRef()
	if bld == nil {
		return
	}

	tr := bld.TradeFromER(er)
	if tr == nil {
		log.WithField("security_id", er.SecurityID).Warn("成交回报合约未识别，丢弃")
		return
	}

	t.jnl.RecordTrade(tr)
	t.disp.Post(func() { t.sink.OnPushTrade(tr) })
}

// OnRspBizRejection 请求层拒绝：请求未进入撮合即被网关打回
func (t *Trader) OnRspBizRejection(rej *atp.BizRejection) {
	bld := t.builderRef()
	if bld == nil {
		return
	}

	isCancel := rej.APIMsgType == atp.APIMsgTypeCancelOrder
	code := domain.ErrOrderInsert
	if isCancel {
		code = domain.ErrOrderCancel
	}
	terr := domain.NewError(code, "%s (reject_reason=%d)", rej.BusinessRejectText, rej.RejectReasonCode)

	e := &domain.Entrust{
		EntrustID: builder.GenEntrustID(t.cfg.User, t.tradingDay.Load(), rej.ClientSeqID),
	}
	t.cacheMu.Lock()
	if t.eid != nil {
		e.UserTag = t.eid.Get(e.EntrustID)
	}
	t.cacheMu.Unlock()

	log.WithFields(logrus.Fields{
		"entrust_id": e.EntrustID,
		"is_cancel":  isCancel,
		"reason":     rej.BusinessRejectText,
	}).Warn("请求被网关拒绝")

	t.jnl.RecordEntrustError(e.EntrustID, "", "", terr, isCancel)
	t.disp.Post(func() { t.sink.OnRspEntrust(e, terr, isCancel) })
}

func (t *Trader) OnRspFundQueryResult(msg *atp.FundQueryResult) {
	if msg.QueryResultCode != 0 {
		log.WithField("code", msg.QueryResultCode).Warn("资金查询失败")
		return
	}
	a := builder.AccountFromFundResult(msg)
	t.disp.Post(func() { t.sink.OnRspAccount(a) })
}

func (t *Trader) OnRspOrderQueryResult(msg *atp.OrderQueryResult) {
	bld := t.builderRef()
	if bld == nil {
		return
	}
	if msg.QueryResultCode != 0 {
		log.WithField("code", msg.QueryResultCode).Warn("订单查询失败")
		return
	}

	orders := make([]*domain.Order, 0, len(msg.Orders))
	for i := range msg.Orders {
		if o := bld.OrderFromQueryUnit(&msg.Orders[i]); o != nil {
			orders = append(orders, o)
		}
	}
	t.disp.Post(func() { t.sink.OnRspOrders(orders) })
}

func (t *Trader) OnRspTradeOrderQueryResult(msg *atp.TradeOrderQueryResult) {
	bld := t.builderRef()
	if bld == nil {
		return
	}
	if msg.QueryResultCode != 0 {
		log.WithField("code", msg.QueryResultCode).Warn("成交查询失败")
		return
	}

	trades := make([]*domain.Trade, 0, len(msg.Trades))
	for i := range msg.Trades {
		if tr := bld.TradeFromQueryUnit(&msg.Trades[i]); tr != nil {
			trades = append(trades, tr)
		}
	}
	t.disp.Post(func() { t.sink.OnRspTrades(trades) })
}

// OnRspShareQueryResult 持仓查询：每次响应整体重建，同一证券多行合并
func (t *Trader) OnRspShareQueryResult(msg *atp.ShareQueryResult) {
	bld := t.builderRef()
	if bld == nil {
		return
	}
	if msg.QueryResultCode != 0 {
		log.WithField("code", msg.QueryResultCode).Warn("持仓查询失败")
		return
	}

	merged := make(map[string]*domain.PositionItem)
	order := make([]string, 0, len(msg.Shares))
	for i := range msg.Shares {
		p := bld.PositionFromShareUnit(&msg.Shares[i])
		if p == nil {
			continue
		}
		k := p.Code + "-" + p.Exchange
		if exist, ok := merged[k]; ok {
			exist.NewPosition += p.NewPosition
			exist.PrePosition += p.PrePosition
			exist.AvailPrePos += p.AvailPrePos
			exist.Margin += p.Margin
			exist.PositionCost += p.PositionCost
			exist.DynProfit += p.DynProfit
			continue
		}
		merged[k] = p
		order = append(order, k)
	}

	positions := make([]*domain.PositionItem, 0, len(order))
	for _, k := range order {
		positions = append(positions, merged[k])
	}
	t.disp.Post(func() { t.sink.OnRspPositions(positions) })
}
