package translate

import (
	"testing"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/domain"
)

func TestDirectionMatrix(t *testing.T) {
	cases := []struct {
		side atp.SideType
		pe   atp.PositionEffectType
		want domain.Direction
	}{
		{atp.SideBuy, atp.PositionEffectOpen, domain.DirectionLong},
		{atp.SideBuy, atp.PositionEffectClose, domain.DirectionShort},
		{atp.SideSell, atp.PositionEffectOpen, domain.DirectionShort},
		{atp.SideSell, atp.PositionEffectClose, domain.DirectionLong},
		{atp.SideFinancingBuy, atp.PositionEffectOpen, domain.DirectionLong},
		{atp.SideLoanSell, atp.PositionEffectClose, domain.DirectionLong},
	}
	for _, c := range cases {
		if got := Direction(c.side, c.pe); got != c.want {
			t.Errorf("Direction(%c, %c) = %v, 期望 %v", c.side, c.pe, got, c.want)
		}
	}
}

func TestSideFallback(t *testing.T) {
	if got := Side('X'); got != domain.DirectionNet {
		t.Errorf("未知方向应映射为 Net，实际 %v", got)
	}
	if got := Side(atp.SideBuy); got != domain.DirectionLong {
		t.Errorf("买入应映射为 Long，实际 %v", got)
	}
	if got := Side(atp.SideLoanSell); got != domain.DirectionShort {
		t.Errorf("融券卖出应映射为 Short，实际 %v", got)
	}
}

func TestOrdTypeForValidCombos(t *testing.T) {
	cases := []struct {
		pt   domain.PriceType
		flag domain.OrderFlag
		want atp.OrdTypeType
	}{
		{domain.PriceTypeLimit, domain.OrderFlagNor, atp.OrdTypeFixedNew},
		{domain.PriceTypeLimit, domain.OrderFlagFOK, atp.OrdTypeFixedFullDealOrCancel},
		{domain.PriceTypeAny, domain.OrderFlagNor, atp.OrdTypeMarketTransferFixed},
		{domain.PriceTypeAny, domain.OrderFlagFAK, atp.OrdTypeImmediateDealTransferCancel},
		{domain.PriceTypeAny, domain.OrderFlagFOK, atp.OrdTypeFullDealOrCancel},
	}
	for _, c := range cases {
		got, err := OrdTypeFor(c.pt, c.flag)
		if err != nil {
			t.Errorf("OrdTypeFor(%v, %v) 不应报错: %v", c.pt, c.flag, err)
			continue
		}
		if got != c.want {
			t.Errorf("OrdTypeFor(%v, %v) = %c, 期望 %c", c.pt, c.flag, got, c.want)
		}
	}
}

func TestOrdTypeForInvalidCombos(t *testing.T) {
	cases := []struct {
		pt   domain.PriceType
		flag domain.OrderFlag
	}{
		{domain.PriceTypeLimit, domain.OrderFlagFAK},
		{domain.PriceTypeBest, domain.OrderFlagNor},
		{domain.PriceTypeLast, domain.OrderFlagNor},
		{domain.PriceTypeBest, domain.OrderFlagFOK},
	}
	for _, c := range cases {
		_, err := OrdTypeFor(c.pt, c.flag)
		if err == nil {
			t.Errorf("OrdTypeFor(%v, %v) 应返回错误", c.pt, c.flag)
			continue
		}
		terr, ok := err.(*domain.TradingError)
		if !ok {
			t.Errorf("错误类型应为 TradingError，实际 %T", err)
			continue
		}
		if terr.Code != domain.ErrProtocol {
			t.Errorf("错误类别应为 protocol，实际 %v", terr.Code)
		}
	}
}

func TestPriceTypeRoundtrip(t *testing.T) {
	// 五个有效组合翻译出去再翻译回来，价格类型不变
	combos := []struct {
		pt   domain.PriceType
		flag domain.OrderFlag
	}{
		{domain.PriceTypeLimit, domain.OrderFlagNor},
		{domain.PriceTypeLimit, domain.OrderFlagFOK},
		{domain.PriceTypeAny, domain.OrderFlagNor},
		{domain.PriceTypeAny, domain.OrderFlagFAK},
		{domain.PriceTypeAny, domain.OrderFlagFOK},
	}
	for _, c := range combos {
		ordType, err := OrdTypeFor(c.pt, c.flag)
		if err != nil {
			t.Fatalf("OrdTypeFor(%v, %v) 报错: %v", c.pt, c.flag, err)
		}
		if got := PriceType(ordType); got != c.pt {
			t.Errorf("往返翻译 %v -> %c -> %v 不一致", c.pt, ordType, got)
		}
	}
}

func TestPriceTypeFallback(t *testing.T) {
	if got := PriceType('z'); got != domain.PriceTypeLast {
		t.Errorf("未知订单类型应映射为 Last，实际 %v", got)
	}
	if got := PriceType(atp.OrdTypeLocalOptimal); got != domain.PriceTypeBest {
		t.Errorf("本方最优应映射为 Best，实际 %v", got)
	}
}

func TestOrderState(t *testing.T) {
	cases := []struct {
		status atp.OrdStatusType
		want   domain.OrderState
	}{
		{atp.OrdStatusNew, domain.OrderStateSubmitting},
		{atp.OrdStatusSended, domain.OrderStateSubmitting},
		{atp.OrdStatusProcessed, domain.OrderStateSubmitting},
		{atp.OrdStatusPartiallyFilled, domain.OrderStatePartTradedQueuing},
		{atp.OrdStatusFilled, domain.OrderStateAllTraded},
		{atp.OrdStatusWaitCancelled, domain.OrderStateCanceling},
		{atp.OrdStatusPartiallyFilledWaitCancelled, domain.OrderStateCanceling},
		{atp.OrdStatusCancelled, domain.OrderStateCanceled},
		{atp.OrdStatusPartiallyFilledPartiallyCancelled, domain.OrderStatePartTradedNotQueuing},
		{atp.OrdStatusType(99), domain.OrderStateNotTraded},
	}
	for _, c := range cases {
		if got := OrderState(c.status); got != c.want {
			t.Errorf("OrderState(%d) = %v, 期望 %v", c.status, got, c.want)
		}
	}
}

func TestIsErrorStatus(t *testing.T) {
	if !IsErrorStatus(atp.OrdStatusReject) {
		t.Error("Reject 应判定为错误状态")
	}
	if !IsErrorStatus(atp.OrdStatusUnSend) {
		t.Error("UnSend 应判定为错误状态")
	}
	if IsErrorStatus(atp.OrdStatusCancelled) {
		t.Error("Cancelled 不应判定为错误状态")
	}
}
