package atp

// 入站消息。内部确认（internal ack）与交易所确认（confirmed ack）
// 共用 OrderStatusAck 结构，两类回报的处理完全相同。

// CustLoginResp 客户登录响应
type CustLoginResp struct {
	ClientSeqID        uint32             `json:"client_seq_id"`
	TransactTime       int64              `json:"transact_time"`
	CustID             string             `json:"cust_id"`
	PermissonErrorCode int32              `json:"permisson_error_code"`
	UserInfo           string             `json:"user_info"`
	FundAccounts       []FundAccountUnit  `json:"fund_account_array,omitempty"`
}

// FundAccountUnit 登录响应中的资金账户信息
type FundAccountUnit struct {
	FundAccountID string        `json:"fund_account_id"`
	BranchID      string        `json:"branch_id"`
	Accounts      []AccountUnit `json:"account_array,omitempty"`
}

// AccountUnit 证券账户信息
type AccountUnit struct {
	AccountID string       `json:"account_id"`
	MarketID  MarketIDType `json:"market_id"`
}

// CustLogoutResp 客户登出响应
type CustLogoutResp struct {
	ClientSeqID        uint32 `json:"client_seq_id"`
	PermissonErrorCode int32  `json:"permisson_error_code"`
	UserInfo           string `json:"user_info"`
}

// OrderStatusAck 订单状态回报（内部确认/交易所确认共用）
type OrderStatusAck struct {
	Partition    int8         `json:"partition"`
	Index        int64        `json:"index"`
	BusinessType int8         `json:"business_type"`
	ClOrdNo      int64        `json:"cl_ord_no"` // BrokerOrderID
	SecurityID   string       `json:"security_id"`
	MarketID     MarketIDType `json:"market_id"`
	ExecType     string       `json:"exec_type"`
	OrdStatus    OrdStatusType `json:"ord_status"`

	CustID        string `json:"cust_id"`
	FundAccountID string `json:"fund_account_id"`
	AccountID     string `json:"account_id"`

	Price     int64 `json:"price"`     // N13(4)，1/10000 元
	OrderQty  int64 `json:"order_qty"` // N15(2)，1/100 股
	LeavesQty int64 `json:"leaves_qty"`
	CumQty    int64 `json:"cum_qty"`

	Side         SideType           `json:"side"`
	TransactTime int64              `json:"transact_time"`
	UserInfo     string             `json:"user_info"`
	OrderID      int64              `json:"order_id"`
	ClOrdID      string             `json:"cl_ord_id"`
	ClientSeqID  uint32             `json:"client_seq_id"`
	OrigClOrdNo  int64              `json:"orig_cl_ord_no"`

	FrozenTradeValue int64 `json:"frozen_trade_value"`
	FrozenFee        int64 `json:"frozen_fee"`

	RejectReasonCode int32  `json:"reject_reason_code"`
	OrdRejReason     string `json:"ord_rej_reason"`

	OrderType      OrdTypeType        `json:"order_type"`
	TimeInForce    byte               `json:"time_in_force"`
	PositionEffect PositionEffectType `json:"position_effect"`
}

// CashAuctionTradeER 现货竞价成交回报
type CashAuctionTradeER struct {
	Partition    int8          `json:"partition"`
	Index        int64         `json:"index"`
	BusinessType int8          `json:"business_type"`
	ClOrdNo      int64         `json:"cl_ord_no"`
	SecurityID   string        `json:"security_id"`
	MarketID     MarketIDType  `json:"market_id"`
	ExecType     string        `json:"exec_type"`
	OrdStatus    OrdStatusType `json:"ord_status"`

	CustID        string `json:"cust_id"`
	FundAccountID string `json:"fund_account_id"`
	AccountID     string `json:"account_id"`

	Price     int64 `json:"price"`
	OrderQty  int64 `json:"order_qty"`
	LeavesQty int64 `json:"leaves_qty"`
	CumQty    int64 `json:"cum_qty"`

	Side         SideType `json:"side"`
	TransactTime int64    `json:"transact_time"`
	UserInfo     string   `json:"user_info"`
	OrderID      int64    `json:"order_id"`
	ClOrdID      string   `json:"cl_ord_id"`

	ExecID           string `json:"exec_id"`
	LastPx           int64  `json:"last_px"`   // N13(4)
	LastQty          int64  `json:"last_qty"`  // N15(2)
	TotalValueTraded int64  `json:"total_value_traded"` // N15(4)
	Fee              int64  `json:"fee"`
	CashMargin       int64  `json:"cash_margin"`
}

// BizRejection 业务拒绝（请求未进入撮合即被拒）
type BizRejection struct {
	TransactTime       int64  `json:"transact_time"`
	ClientSeqID        uint32 `json:"client_seq_id"`
	APIMsgType         uint16 `json:"api_msg_type"`
	RejectReasonCode   int32  `json:"reject_reason_code"`
	BusinessRejectText string `json:"business_reject_text"`
	UserInfo           string `json:"user_info"`
}

// FundQueryResult 资金查询结果
type FundQueryResult struct {
	CustID          string `json:"cust_id"`
	FundAccountID   string `json:"fund_account_id"`
	AccountID       string `json:"account_id"`
	ClientSeqID     uint32 `json:"client_seq_id"`
	QueryResultCode int32  `json:"query_result_code"`
	UserInfo        string `json:"user_info"`

	LeavesValue     int64 `json:"leaves_value"`      // N15(4)
	InitLeavesValue int64 `json:"init_leaves_value"` // N15(4)
	AvailableT0     int64 `json:"available_t0"`
	AvailableTAll   int64 `json:"available_tall"`
	FrozenAll       int64 `json:"frozen_all"`
}

// OrderUnit 订单查询结果行
type OrderUnit struct {
	BusinessType   int8          `json:"business_type"`
	SecurityID     string        `json:"security_id"`
	SecuritySymbol string        `json:"security_symbol"`
	MarketID       MarketIDType  `json:"market_id"`
	AccountID      string        `json:"account_id"`
	Side           SideType      `json:"side"`
	OrdType        OrdTypeType   `json:"ord_type"`
	OrdStatus      OrdStatusType `json:"ord_status"`
	TransactTime   int64         `json:"transact_time"`

	OrderPrice int64 `json:"order_price"` // N13(4)
	ExecPrice  int64 `json:"exec_price"`
	OrderQty   int64 `json:"order_qty"` // N15(2)
	LeavesQty  int64 `json:"leaves_qty"`
	CumQty     int64 `json:"cum_qty"`

	ClOrdNo     int64  `json:"cl_ord_no"`
	OrderID     int64  `json:"order_id"`
	ClOrdID     string `json:"cl_ord_id"`
	ClientSeqID uint32 `json:"client_seq_id"`
	OrigClOrdNo int64  `json:"orig_cl_ord_no"`

	RejectReasonCode int32  `json:"reject_reason_code"`
	OrdRejReason     string `json:"ord_rej_reason"`
}

// OrderQueryResult 订单查询结果
type OrderQueryResult struct {
	CustID          string      `json:"cust_id"`
	ClientSeqID     uint32      `json:"client_seq_id"`
	QueryResultCode int32       `json:"query_result_code"`
	LastIndex       int64       `json:"last_index"`
	TotalNum        int64       `json:"total_num"`
	Orders          []OrderUnit `json:"order_array,omitempty"`
}

// TradeUnit 成交查询结果行
type TradeUnit struct {
	BusinessType   int8         `json:"business_type"`
	SecurityID     string       `json:"security_id"`
	SecuritySymbol string       `json:"security_symbol"`
	MarketID       MarketIDType `json:"market_id"`
	AccountID      string       `json:"account_id"`
	Side           SideType     `json:"side"`
	OrdType        OrdTypeType  `json:"ord_type"`
	TransactTime   int64        `json:"transact_time"`

	LastPx           int64 `json:"last_px"`  // N13(4)
	LastQty          int64 `json:"last_qty"` // N15(2)
	TotalValueTraded int64 `json:"total_value_traded"` // N15(2)

	ExecID      string `json:"exec_id"`
	ClOrdNo     int64  `json:"cl_ord_no"`
	OrderID     int64  `json:"order_id"`
	ClOrdID     string `json:"cl_ord_id"`
	ClientSeqID uint32 `json:"client_seq_id"`
}

// TradeOrderQueryResult 成交查询结果
type TradeOrderQueryResult struct {
	CustID          string      `json:"cust_id"`
	ClientSeqID     uint32      `json:"client_seq_id"`
	QueryResultCode int32       `json:"query_result_code"`
	LastIndex       int64       `json:"last_index"`
	TotalNum        int64       `json:"total_num"`
	Trades          []TradeUnit `json:"order_array,omitempty"`
}

// ShareUnit 股份（持仓）查询结果行
type ShareUnit struct {
	SecurityID     string       `json:"security_id"`
	SecuritySymbol string       `json:"security_symbol"`
	MarketID       MarketIDType `json:"market_id"`
	AccountID      string       `json:"account_id"`

	InitQty      int64 `json:"init_qty"`      // N15(2)
	LeavesQty    int64 `json:"leaves_qty"`    // N15(2)
	AvailableQty int64 `json:"available_qty"` // N15(2)
	ProfitLoss   int64 `json:"profit_loss"`   // N15(4)
	MarketValue  int64 `json:"market_value"`  // N15(4)
	CostPrice    int64 `json:"cost_price"`    // N13(2)
}

// ShareQueryResult 持仓查询结果
type ShareQueryResult struct {
	CustID          string      `json:"cust_id"`
	FundAccountID   string      `json:"fund_account_id"`
	AccountID       string      `json:"account_id"`
	ClientSeqID     uint32      `json:"client_seq_id"`
	QueryResultCode int32       `json:"query_result_code"`
	UserInfo        string      `json:"user_info"`
	LastIndex       int64       `json:"last_index"`
	TotalNum        int64       `json:"total_num"`
	Shares          []ShareUnit `json:"order_array,omitempty"`
}

// 出站请求

// ReqCustLogin 客户号登录请求
type ReqCustLogin struct {
	FundAccountID     string `json:"fund_account_id"`
	Password          string `json:"password"`
	UserInfo          string `json:"user_info"`
	AccountID         string `json:"account_id"`
	BranchID          string `json:"branch_id"`
	LoginMode         byte   `json:"login_mode"`
	ClientSeqID       uint32 `json:"client_seq_id"`
	OrderWay          byte   `json:"order_way"`
	ClientFeatureCode string `json:"client_feature_code"`
}

// ReqCustLogout 客户号登出请求
type ReqCustLogout struct {
	FundAccountID     string `json:"fund_account_id"`
	ClientSeqID       uint32 `json:"client_seq_id"`
	ClientFeatureCode string `json:"client_feature_code"`
}

// ReqCashAuctionOrder 现货竞价委托
type ReqCashAuctionOrder struct {
	SecurityID    string       `json:"security_id"`
	MarketID      MarketIDType `json:"market_id"`
	CustID        string       `json:"cust_id"`
	FundAccountID string       `json:"fund_account_id"`
	AccountID     string       `json:"account_id"`

	Side      SideType    `json:"side"`
	OrderType OrdTypeType `json:"order_type"`
	Price     int64       `json:"price"`     // N13(4)
	OrderQty  int64       `json:"order_qty"` // N15(2)

	ClientSeqID       uint32 `json:"client_seq_id"`
	OrderWay          byte   `json:"order_way"`
	ClientFeatureCode string `json:"client_feature_code"`
	Password          string `json:"password"`
	UserInfo          string `json:"user_info"`
}

// ReqCancelOrder 撤单请求
type ReqCancelOrder struct {
	MarketID      MarketIDType `json:"market_id"`
	CustID        string       `json:"cust_id"`
	FundAccountID string       `json:"fund_account_id"`
	AccountID     string       `json:"account_id"`
	Password      string       `json:"password"`
	UserInfo      string       `json:"user_info"`

	ClientSeqID uint32 `json:"client_seq_id"`
	OrderWay    byte   `json:"order_way"`
	OrigClOrdNo int64  `json:"orig_cl_ord_no"`
}

// ReqFundQuery 资金查询
type ReqFundQuery struct {
	CustID        string `json:"cust_id"`
	FundAccountID string `json:"fund_account_id"`
	AccountID     string `json:"account_id"`
	ClientSeqID   uint32 `json:"client_seq_id"`
	UserInfo      string `json:"user_info"`
	Password      string `json:"password"`
	Currency      string `json:"currency"`
}

// ReqShareQuery 持仓查询
type ReqShareQuery struct {
	CustID        string   `json:"cust_id"`
	FundAccountID string   `json:"fund_account_id"`
	AccountID     string   `json:"account_id"`
	ClientSeqID   uint32   `json:"client_seq_id"`
	UserInfo      string   `json:"user_info"`
	Password      string   `json:"password"`
	AccountIDList []string `json:"account_id_array,omitempty"`
}

// ReqOrderQuery 订单查询
type ReqOrderQuery struct {
	CustID               string `json:"cust_id"`
	FundAccountID        string `json:"fund_account_id"`
	AccountID            string `json:"account_id"`
	ClientSeqID          uint32 `json:"client_seq_id"`
	BusinessAbstractType int8   `json:"business_abstract_type"`
	UserInfo             string `json:"user_info"`
	Password             string `json:"password"`
}

// ReqTradeOrderQuery 成交查询
type ReqTradeOrderQuery struct {
	CustID               string `json:"cust_id"`
	FundAccountID        string `json:"fund_account_id"`
	AccountID            string `json:"account_id"`
	ClientSeqID          uint32 `json:"client_seq_id"`
	BusinessAbstractType int8   `json:"business_abstract_type"`
	UserInfo             string `json:"user_info"`
	Password             string `json:"password"`
}
