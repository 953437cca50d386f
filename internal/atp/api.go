package atp

import "time"

// ConnectProperty 连接参数
type ConnectProperty struct {
	User     string
	Password string
	// Locations 交易网关节点地址（主备），依次尝试
	Locations []string

	HeartbeatInterval time.Duration
	ConnectTimeout    time.Duration
	ReconnectTime     int

	ClientName    string
	ClientVersion string
	// SessionID 本次连接的会话标识
	SessionID string

	// ReportSync 回报同步游标快照提供者：分区号 -> 已收到的最大回报序号。
	// 每次建立连接（含内部重连）时取一次最新快照，
	// 网关只补发各分区该序号之后的回报。nil 表示从头同步。
	ReportSync func() map[int8]int64

	// Mode 0-同步回报模式；1-快速登录模式（不同步回报）
	Mode int
}

// CallbackSink 网关回调接收方。
// 回调在传输层自己的读线程上同步触发，实现必须快速且不阻塞。
type CallbackSink interface {
	// 连接生命周期
	OnLogin(reason string)
	OnLogout(reason string)
	OnConnectFailure(reason string)
	OnConnectTimeOut(reason string)
	OnHeartbeatTimeout(reason string)
	OnClosed(reason string)
	OnEndOfConnection(reason string)

	// 业务响应
	OnRspCustLoginResp(resp *CustLoginResp)
	OnRspCustLogoutResp(resp *CustLogoutResp)
	OnRspOrderStatusInternalAck(ack *OrderStatusAck)
	OnRspOrderStatusAck(ack *OrderStatusAck)
	OnRspCashAuctionTradeER(er *CashAuctionTradeER)
	OnRspBizRejection(rej *BizRejection)
	OnRspFundQueryResult(msg *FundQueryResult)
	OnRspOrderQueryResult(msg *OrderQueryResult)
	OnRspTradeOrderQueryResult(msg *TradeOrderQueryResult)
	OnRspShareQueryResult(msg *ShareQueryResult)
}

// TradeAPI 交易网关接口。连接保持、心跳、重连由实现负责，
// 上层只构造请求并消费回调。
type TradeAPI interface {
	Connect(prop *ConnectProperty, sink CallbackSink) error
	// Close 发起关闭；完全关闭以 sink.OnEndOfConnection 为准
	Close() error

	ReqCustLogin(msg *ReqCustLogin) error
	ReqCustLogout(msg *ReqCustLogout) error
	ReqCashAuctionOrder(msg *ReqCashAuctionOrder) error
	ReqCancelOrder(msg *ReqCancelOrder) error
	ReqFundQuery(msg *ReqFundQuery) error
	ReqShareQuery(msg *ReqShareQuery) error
	ReqOrderQuery(msg *ReqOrderQuery) error
	ReqTradeOrderQuery(msg *ReqTradeOrderQuery) error
}
