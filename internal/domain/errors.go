package domain

import "fmt"

// ErrorCode 交易错误类别
type ErrorCode int

const (
	ErrNone        ErrorCode = iota
	ErrProtocol              // 协议/参数错误（如不支持的价格类型组合）
	ErrNotReady              // 会话未就绪
	ErrOrderInsert           // 下单被拒
	ErrOrderCancel           // 撤单被拒
	ErrLogin                 // 登录失败
)

// TradingError 带类别的交易错误，拒单回调通过它区分撤单拒绝和下单拒绝
type TradingError struct {
	Code ErrorCode
	Msg  string
}

func NewError(code ErrorCode, format string, args ...interface{}) *TradingError {
	return &TradingError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *TradingError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "none"
	case ErrProtocol:
		return "protocol"
	case ErrNotReady:
		return "not_ready"
	case ErrOrderInsert:
		return "order_insert"
	case ErrOrderCancel:
		return "order_cancel"
	case ErrLogin:
		return "login"
	default:
		return "unknown"
	}
}
