package builder

import "github.com/shopspring/decimal"

// 网关整数字段的定点口径：
//   - 价格 N13(4)：1/10000 元
//   - 数量 N15(2)：1/100 股
//   - 金额在回报里是 N15(4)，在查询结果里是 N15(2)，两边不一样
//
// 用 decimal 做缩放再转 float64，避免 1e-4 的二进制表示误差
// 在中间运算里被放大（100000/10000 必须精确等于 10.00）。

func scalePrice(v int64) float64 {
	return decimal.New(v, -4).InexactFloat64()
}

func scaleQty(v int64) float64 {
	return decimal.New(v, -2).InexactFloat64()
}

func scaleAmount4(v int64) float64 {
	return decimal.New(v, -4).InexactFloat64()
}

func scaleAmount2(v int64) float64 {
	return decimal.New(v, -2).InexactFloat64()
}

// UnscalePrice 下单方向：元 → 1/10000 口径整数
func UnscalePrice(v float64) int64 {
	return decimal.NewFromFloat(v).Shift(4).Round(0).IntPart()
}

// UnscaleQty 下单方向：股 → 1/100 口径整数
func UnscaleQty(v float64) int64 {
	return decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
}
