package domain

// Direction 交易方向（归一化口径）
type Direction int8

const (
	DirectionLong  Direction = iota // 多
	DirectionShort                  // 空
	DirectionNet                    // 净（无法判定方向时的兜底值）
)

// Offset 开平方向
type Offset int8

const (
	OffsetOpen  Offset = iota // 开仓
	OffsetClose               // 平仓
)

// PriceType 价格类型
type PriceType int8

const (
	PriceTypeLimit PriceType = iota // 限价
	PriceTypeAny                    // 市价
	PriceTypeBest                   // 最优价
	PriceTypeLast                   // 最新价（兜底值）
)

// OrderFlag 订单标志
type OrderFlag int8

const (
	OrderFlagNor OrderFlag = iota // 普通
	OrderFlagFAK                  // 立即成交剩余撤销
	OrderFlagFOK                  // 全部成交或撤销
)

// OrderState 订单状态（归一化口径）
type OrderState int8

const (
	OrderStateSubmitting          OrderState = iota // 已提交，等待确认
	OrderStateNotTraded                             // 未触发（兜底值）
	OrderStatePartTradedQueuing                     // 部分成交，还在队列中
	OrderStatePartTradedNotQueuing                  // 部分成交，不在队列中（部成部撤）
	OrderStateAllTraded                             // 全部成交
	OrderStateCanceling                             // 撤单中
	OrderStateCanceled                              // 已撤销
)

// EventType 连接层事件类型
type EventType int8

const (
	EventConnect EventType = iota // 连接（成功或失败，以 code 区分）
	EventClose                    // 连接断开
	EventLogout                   // 登出
)

// Entrust 委托请求（下单参数，也用于拒单回报的参数重建）
type Entrust struct {
	Code      string
	Exchange  string
	Volume    float64
	Price     float64
	Direction Direction
	Offset    Offset
	PriceType PriceType
	OrderFlag OrderFlag

	// EntrustID 本地生成的委托号，下单前即可用
	EntrustID string
	// UserTag 调用方自定义标记，需要跨越 EntrustID → BrokerOrderID 的切换
	UserTag string
}

// Order 订单回报（归一化）
type Order struct {
	Code      string
	Exchange  string
	Volume    float64
	Price     float64
	Direction Direction
	Offset    Offset
	PriceType PriceType
	OrderFlag OrderFlag

	VolTraded float64
	VolLeft   float64

	// OrderDate YYYYMMDD；OrderTime 毫秒时间戳（由回报的 transact_time 拆出）
	OrderDate uint32
	OrderTime int64

	State   OrderState
	IsError bool // 被拒绝或未发出时置位，此时 State 强制为 Canceled

	EntrustID string
	OrderID   string // 券商委托号（BrokerOrderID），确认前为空
	UserTag   string
	StateMsg  string
}

// Trade 成交回报（归一化）
type Trade struct {
	Code     string
	Exchange string

	TradeID  string
	RefOrder string // 关联的 BrokerOrderID

	Volume float64
	Price  float64
	Amount float64

	TradeDate uint32
	TradeTime int64

	Direction Direction
	UserTag   string
}

// PositionItem 持仓条目，按 (Code, Exchange) 聚合
// 每次持仓查询响应整体重建，不做增量合并
type PositionItem struct {
	Code     string
	Exchange string
	Currency string

	NewPosition float64 // 今仓（可用）
	PrePosition float64 // 昨仓

	AvailNewPos float64
	AvailPrePos float64

	Margin       float64
	PositionCost float64
	DynProfit    float64
	AvgPrice     float64
}

// AccountInfo 资金账户
type AccountInfo struct {
	Currency   string
	PreBalance float64
	Balance    float64
	Available  float64
}
