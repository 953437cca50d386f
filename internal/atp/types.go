// Package atp 定义 ATP 网关的线上消息与传输接口
package atp

// SideType 买卖方向（网关口径）
type SideType = byte

const (
	SideBuy          SideType = '1' // 买入
	SideSell         SideType = '2' // 卖出
	SideFinancingBuy SideType = 'A' // 融资买入
	SideLoanSell     SideType = 'B' // 融券卖出
)

// PositionEffectType 开平标志
type PositionEffectType = byte

const (
	PositionEffectOpen  PositionEffectType = 'O'
	PositionEffectClose PositionEffectType = 'C'
)

// OrdTypeType 网关订单类型
type OrdTypeType = byte

const (
	OrdTypeFixedNew                    OrdTypeType = 'a' // 限价委托（非强限价）
	OrdTypeFixed                       OrdTypeType = 'b' // 强限价
	OrdTypeFixedFullDealOrCancel       OrdTypeType = 'c' // 限价全额成交或撤销
	OrdTypeMarketTransferFixed         OrdTypeType = 'd' // 市价剩余转限价
	OrdTypeImmediateDealTransferCancel OrdTypeType = 'e' // 立即成交剩余撤销
	OrdTypeFullDealOrCancel            OrdTypeType = 'f' // 全额成交或撤销
	OrdTypeMarket                      OrdTypeType = 'g' // 市价
	OrdTypeSzBiddingFixed              OrdTypeType = 'h' // 深市盘后定价
	OrdTypeShBiddingFixed              OrdTypeType = 'i' // 沪市盘后定价
	OrdTypeLocalOptimal                OrdTypeType = 'j' // 本方最优
	OrdTypeCountPartyOptimal           OrdTypeType = 'k' // 对手方最优转限价
	OrdTypeOptimalFiveLevelDealCancel  OrdTypeType = 'l' // 最优五档成交剩余撤销
	OrdTypeOptimalFiveLevelDealFixed   OrdTypeType = 'm' // 最优五档成交剩余转限价
)

// OrdStatusType 网关订单状态
type OrdStatusType int8

const (
	OrdStatusNew                              OrdStatusType = 0  // 已接收
	OrdStatusSended                           OrdStatusType = 1  // 已报送
	OrdStatusProcessed                        OrdStatusType = 2  // 已处理
	OrdStatusPartiallyFilled                  OrdStatusType = 3  // 部分成交
	OrdStatusFilled                           OrdStatusType = 4  // 全部成交
	OrdStatusWaitCancelled                    OrdStatusType = 5  // 待撤销
	OrdStatusPartiallyFilledWaitCancelled     OrdStatusType = 6  // 部成待撤
	OrdStatusCancelled                        OrdStatusType = 7  // 已撤销
	OrdStatusPartiallyFilledPartiallyCancelled OrdStatusType = 8 // 部成部撤
	OrdStatusReject                           OrdStatusType = 9  // 已拒绝
	OrdStatusUnSend                           OrdStatusType = 10 // 未报送
)

// MarketIDType 市场编号
type MarketIDType uint16

const (
	MarketIDShangHai MarketIDType = 101 // SSE
	MarketIDShenZhen MarketIDType = 102 // SZSE
)

// ExchangeOf 市场编号到交易所代码
func ExchangeOf(marketID MarketIDType) string {
	if marketID == MarketIDShangHai {
		return "SSE"
	}
	return "SZSE"
}

// MarketIDOf 交易所代码到市场编号
func MarketIDOf(exchg string) MarketIDType {
	if exchg == "SSE" {
		return MarketIDShangHai
	}
	return MarketIDShenZhen
}

// RejectReasonNormal 回报未被拒绝时的 reject_reason_code
const RejectReasonNormal int32 = 0

// 业务拒绝消息里的 api_msg_type，用于区分被拒绝的是哪类请求
const (
	APIMsgTypeCashAuctionOrder uint16 = 33
	APIMsgTypeCancelOrder      uint16 = 34
)

// CustLoginMode 登录模式
const CustLoginModeFundAccountID byte = '2'
