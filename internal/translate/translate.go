// Package translate 是网关枚举与归一化枚举之间的纯转换层。
// 所有函数无状态、无副作用；未识别的输入映射到兜底值而不是报错，
// 唯一的例外是 OrdTypeFor：不支持的组合必须显式报错（见下）。
package translate

import (
	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/domain"
)

// Side 买卖方向 → 归一化方向（不区分开平时使用）
func Side(side atp.SideType) domain.Direction {
	switch side {
	case atp.SideBuy, atp.SideFinancingBuy:
		return domain.DirectionLong
	case atp.SideSell, atp.SideLoanSell:
		return domain.DirectionShort
	default:
		return domain.DirectionNet
	}
}

// Direction (买卖, 开平) → 归一化方向。
// 平仓在报告口径上与开仓语义相反：买入平仓实际是在了结空头，
// 所以 buy+close 映射为 short，sell+close 映射为 long。
func Direction(side atp.SideType, pe atp.PositionEffectType) domain.Direction {
	if side == atp.SideBuy || side == atp.SideFinancingBuy {
		if pe == atp.PositionEffectOpen {
			return domain.DirectionLong
		}
		return domain.DirectionShort
	}
	if pe == atp.PositionEffectOpen {
		return domain.DirectionShort
	}
	return domain.DirectionLong
}

// Offset 开平标志 → 归一化开平
func Offset(pe atp.PositionEffectType) domain.Offset {
	if pe == atp.PositionEffectOpen {
		return domain.OffsetOpen
	}
	return domain.OffsetClose
}

// OrdTypeFor (价格类型, 订单标志) → 网关订单类型。
// 只有五种组合有意义，其余组合返回 ErrProtocol 错误，
// 由调用方在触达网关之前拒绝该请求。
func OrdTypeFor(priceType domain.PriceType, flag domain.OrderFlag) (atp.OrdTypeType, error) {
	switch {
	case priceType == domain.PriceTypeLimit && flag == domain.OrderFlagNor:
		return atp.OrdTypeFixedNew, nil
	case priceType == domain.PriceTypeLimit && flag == domain.OrderFlagFOK:
		return atp.OrdTypeFixedFullDealOrCancel, nil
	case priceType == domain.PriceTypeAny && flag == domain.OrderFlagNor:
		return atp.OrdTypeMarketTransferFixed, nil
	case priceType == domain.PriceTypeAny && flag == domain.OrderFlagFAK:
		return atp.OrdTypeImmediateDealTransferCancel, nil
	case priceType == domain.PriceTypeAny && flag == domain.OrderFlagFOK:
		return atp.OrdTypeFullDealOrCancel, nil
	default:
		return 0, domain.NewError(domain.ErrProtocol,
			"不支持的价格类型/订单标志组合: priceType=%d flag=%d", priceType, flag)
	}
}

// PriceType 网关订单类型 → 归一化价格类型
func PriceType(ordType atp.OrdTypeType) domain.PriceType {
	switch ordType {
	case atp.OrdTypeFixedNew, atp.OrdTypeFixed, atp.OrdTypeSzBiddingFixed,
		atp.OrdTypeShBiddingFixed, atp.OrdTypeFixedFullDealOrCancel:
		return domain.PriceTypeLimit
	case atp.OrdTypeImmediateDealTransferCancel, atp.OrdTypeFullDealOrCancel,
		atp.OrdTypeMarket, atp.OrdTypeMarketTransferFixed:
		return domain.PriceTypeAny
	case atp.OrdTypeLocalOptimal, atp.OrdTypeCountPartyOptimal,
		atp.OrdTypeOptimalFiveLevelDealCancel, atp.OrdTypeOptimalFiveLevelDealFixed:
		return domain.PriceTypeBest
	default:
		return domain.PriceTypeLast
	}
}

// OrderState 网关订单状态 → 归一化状态。
// Reject/UnSend 不在这里处理：它们由 builder 强制置为 Canceled 并打错误标记。
func OrderState(status atp.OrdStatusType) domain.OrderState {
	switch status {
	case atp.OrdStatusFilled:
		return domain.OrderStateAllTraded
	case atp.OrdStatusPartiallyFilled:
		return domain.OrderStatePartTradedQueuing
	case atp.OrdStatusPartiallyFilledPartiallyCancelled:
		return domain.OrderStatePartTradedNotQueuing
	case atp.OrdStatusWaitCancelled, atp.OrdStatusPartiallyFilledWaitCancelled:
		return domain.OrderStateCanceling
	case atp.OrdStatusCancelled:
		return domain.OrderStateCanceled
	case atp.OrdStatusSended, atp.OrdStatusNew, atp.OrdStatusProcessed:
		return domain.OrderStateSubmitting
	default:
		return domain.OrderStateNotTraded
	}
}

// IsErrorStatus 被拒绝或未发出的状态，归一化时强制 Canceled + 错误标记
func IsErrorStatus(status atp.OrdStatusType) bool {
	return status == atp.OrdStatusReject || status == atp.OrdStatusUnSend
}
