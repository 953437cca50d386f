package atp

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "atp_ws")

// 线上帧类型
const (
	frameConnect = "connect"

	frameCustLoginResp         = "cust_login_resp"
	frameCustLogoutResp        = "cust_logout_resp"
	frameOrderStatusInternalAck = "order_status_internal_ack"
	frameOrderStatusAck        = "order_status_ack"
	frameCashAuctionTradeER    = "cash_auction_trade_er"
	frameBizRejection          = "biz_rejection"
	frameFundQueryResult       = "fund_query_result"
	frameOrderQueryResult      = "order_query_result"
	frameTradeOrderQueryResult = "trade_order_query_result"
	frameShareQueryResult      = "share_query_result"

	frameReqCustLogin        = "req_cust_login"
	frameReqCustLogout       = "req_cust_logout"
	frameReqCashAuctionOrder = "req_cash_auction_order"
	frameReqCancelOrder      = "req_cancel_order"
	frameReqFundQuery        = "req_fund_query"
	frameReqShareQuery       = "req_share_query"
	frameReqOrderQuery       = "req_order_query"
	frameReqTradeOrderQuery  = "req_trade_order_query"
)

// wsFrame 网关线上帧：类型 + 负载
type wsFrame struct {
	MsgType string          `json:"msg_type"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// connectFrame 连接帧，携带身份与回报同步游标
type connectFrame struct {
	User              string         `json:"user"`
	Password          string         `json:"password"`
	ClientName        string         `json:"client_name"`
	ClientVersion     string         `json:"client_version"`
	SessionID         string         `json:"session_id"`
	HeartbeatInterval int64          `json:"heartbeat_interval_milli"`
	Mode              int            `json:"mode"`
	ReportSync        map[int8]int64 `json:"report_sync,omitempty"`
}

// WSTradeAPI 基于 WebSocket 的 TradeAPI 实现。
// 读循环在独立 goroutine 上同步触发 sink 回调，对应网关 SDK 的回调线程。
type WSTradeAPI struct {
	prop *ConnectProperty
	sink CallbackSink

	conn   *websocket.Conn
	connMu sync.Mutex

	running   bool
	runningMu sync.RWMutex

	reconnectAttempts int
	reconnectMu       sync.Mutex

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ TradeAPI = (*WSTradeAPI)(nil)

func NewWSTradeAPI() *WSTradeAPI {
	return &WSTradeAPI{}
}

// Connect 建立连接并发送连接帧（含 report_sync），随后启动读循环与心跳循环
func (a *WSTradeAPI) Connect(prop *ConnectProperty, sink CallbackSink) error {
	if prop == nil || len(prop.Locations) == 0 {
		return fmt.Errorf("connect property 缺少网关地址")
	}
	if sink == nil {
		return fmt.Errorf("callback sink 不能为空")
	}

	a.runningMu.Lock()
	if a.running {
		a.runningMu.Unlock()
		return fmt.Errorf("连接已在运行")
	}
	a.running = true
	a.runningMu.Unlock()

	a.prop = prop
	a.sink = sink
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})

	if err := a.dial(); err != nil {
		a.runningMu.Lock()
		a.running = false
		a.runningMu.Unlock()
		sink.OnConnectFailure(err.Error())
		return err
	}

	go a.readLoop()
	go a.pingLoop()

	sink.OnLogin("connected")
	return nil
}

// Close 关闭连接；OnEndOfConnection 在读循环退出时触发
func (a *WSTradeAPI) Close() error {
	a.runningMu.Lock()
	if !a.running {
		a.runningMu.Unlock()
		return nil
	}
	a.running = false
	a.runningMu.Unlock()

	close(a.stopCh)

	a.connMu.Lock()
	if a.conn != nil {
		_ = a.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = a.conn.Close()
		a.conn = nil
	}
	a.connMu.Unlock()

	select {
	case <-a.doneCh:
	case <-time.After(5 * time.Second):
		log.Warnf("关闭超时")
		a.sink.OnEndOfConnection("close timeout")
	}
	return nil
}

// dial 依次尝试主备地址，成功后发送连接帧
func (a *WSTradeAPI) dial() error {
	a.connMu.Lock()
	defer a.connMu.Unlock()

	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}

	timeout := a.prop.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	var conn *websocket.Conn
	var err error
	for _, loc := range a.prop.Locations {
		if loc == "" {
			continue
		}
		conn, _, err = dialer.Dial(loc, nil)
		if err == nil {
			break
		}
		log.Warnf("连接 %s 失败: %v", loc, err)
	}
	if conn == nil {
		if err == nil {
			err = fmt.Errorf("无可用网关地址")
		}
		return err
	}

	hb := a.prop.HeartbeatInterval
	if hb <= 0 {
		hb = 5 * time.Second
	}
	var reportSync map[int8]int64
	if a.prop.ReportSync != nil {
		reportSync = a.prop.ReportSync()
	}
	cf := connectFrame{
		User:              a.prop.User,
		Password:          a.prop.Password,
		ClientName:        a.prop.ClientName,
		ClientVersion:     a.prop.ClientVersion,
		SessionID:         a.prop.SessionID,
		HeartbeatInterval: hb.Milliseconds(),
		Mode:              a.prop.Mode,
		ReportSync:        reportSync,
	}
	payload, err := json.Marshal(cf)
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := conn.WriteJSON(wsFrame{MsgType: frameConnect, Data: payload}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("发送连接帧失败: %w", err)
	}

	a.conn = conn
	a.reconnectMu.Lock()
	a.reconnectAttempts = 0
	a.reconnectMu.Unlock()
	return nil
}

func (a *WSTradeAPI) isRunning() bool {
	a.runningMu.RLock()
	defer a.runningMu.RUnlock()
	return a.running
}

// readLoop 持续读取网关帧并分发到 sink
func (a *WSTradeAPI) readLoop() {
	defer close(a.doneCh)
	defer a.sink.OnEndOfConnection("connection ended")

	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		a.connMu.Lock()
		conn := a.conn
		a.connMu.Unlock()

		if conn == nil {
			if !a.isRunning() || !a.reconnect() {
				return
			}
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			a.connMu.Lock()
			if a.conn != nil {
				_ = a.conn.Close()
				a.conn = nil
			}
			a.connMu.Unlock()

			if !a.isRunning() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.sink.OnClosed(err.Error())
				return
			}
			log.Warnf("读取错误: %v, 准备重连", err)
			a.sink.OnClosed(err.Error())
			if !a.reconnect() {
				return
			}
			continue
		}

		a.dispatch(message)
	}
}

// pingLoop 定期发送 PING 文本帧；发送失败交给 readLoop 的错误路径处理
func (a *WSTradeAPI) pingLoop() {
	hb := a.prop.HeartbeatInterval
	if hb <= 0 {
		hb = 5 * time.Second
	}
	ticker := time.NewTicker(hb)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.connMu.Lock()
			conn := a.conn
			a.connMu.Unlock()
			if conn == nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte("PING")); err != nil {
				if a.isRunning() {
					a.sink.OnHeartbeatTimeout(err.Error())
				}
			}
		}
	}
}

// reconnect 带退避的重连；超过次数上限返回 false
func (a *WSTradeAPI) reconnect() bool {
	a.reconnectMu.Lock()
	a.reconnectAttempts++
	attempts := a.reconnectAttempts
	a.reconnectMu.Unlock()

	limit := a.prop.ReconnectTime
	if limit <= 0 {
		limit = 10
	}
	if attempts > limit {
		a.sink.OnConnectTimeOut(fmt.Sprintf("达到最大重连次数 (%d)", limit))
		return false
	}

	delay := time.Duration(attempts) * time.Second
	if delay > 10*time.Second {
		delay = 10 * time.Second
	}
	log.Warnf("%v 后重连 (尝试 %d/%d)", delay, attempts, limit)

	select {
	case <-a.stopCh:
		return false
	case <-time.After(delay):
	}

	if err := a.dial(); err != nil {
		log.Warnf("重连失败: %v", err)
		a.sink.OnConnectFailure(err.Error())
		return a.reconnect()
	}

	// 重连成功后上层需要重新登录
	a.sink.OnLogin("reconnected")
	return true
}

// dispatch 解析一帧并同步调用对应回调
func (a *WSTradeAPI) dispatch(message []byte) {
	if len(message) == 0 {
		return
	}
	if message[0] != '{' {
		// PONG 等文本帧
		return
	}

	var frame wsFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		log.Errorf("解析网关帧失败: %v", err)
		return
	}

	switch frame.MsgType {
	case frameCustLoginResp:
		var m CustLoginResp
		if a.decode(frame.Data, &m) {
			a.sink.OnRspCustLoginResp(&m)
		}
	case frameCustLogoutResp:
		var m CustLogoutResp
		if a.decode(frame.Data, &m) {
			a.sink.OnRspCustLogoutResp(&m)
		}
	case frameOrderStatusInternalAck:
		var m OrderStatusAck
		if a.decode(frame.Data, &m) {
			a.sink.OnRspOrderStatusInternalAck(&m)
		}
	case frameOrderStatusAck:
		var m OrderStatusAck
		if a.decode(frame.Data, &m) {
			a.sink.OnRspOrderStatusAck(&m)
		}
	case frameCashAuctionTradeER:
		var m CashAuctionTradeER
		if a.decode(frame.Data, &m) {
			a.sink.OnRspCashAuctionTradeER(&m)
		}
	case frameBizRejection:
		var m BizRejection
		if a.decode(frame.Data, &m) {
			a.sink.OnRspBizRejection(&m)
		}
	case frameFundQueryResult:
		var m FundQueryResult
		if a.decode(frame.Data, &m) {
			a.sink.OnRspFundQueryResult(&m)
		}
	case frameOrderQueryResult:
		var m OrderQueryResult
		if a.decode(frame.Data, &m) {
			a.sink.OnRspOrderQueryResult(&m)
		}
	case frameTradeOrderQueryResult:
		var m TradeOrderQueryResult
		if a.decode(frame.Data, &m) {
			a.sink.OnRspTradeOrderQueryResult(&m)
		}
	case frameShareQueryResult:
		var m ShareQueryResult
		if a.decode(frame.Data, &m) {
			a.sink.OnRspShareQueryResult(&m)
		}
	default:
		log.Debugf("忽略未知帧类型: %s", frame.MsgType)
	}
}

func (a *WSTradeAPI) decode(data json.RawMessage, out interface{}) bool {
	if err := json.Unmarshal(data, out); err != nil {
		log.Errorf("解析帧负载失败: %v", err)
		return false
	}
	return true
}

// send 序列化并发送一个请求帧
func (a *WSTradeAPI) send(msgType string, msg interface{}) error {
	if !a.isRunning() {
		return fmt.Errorf("未连接")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	a.connMu.Lock()
	defer a.connMu.Unlock()
	if a.conn == nil {
		return fmt.Errorf("未连接")
	}
	return a.conn.WriteJSON(wsFrame{MsgType: msgType, Data: payload})
}

func (a *WSTradeAPI) ReqCustLogin(msg *ReqCustLogin) error {
	return a.send(frameReqCustLogin, msg)
}

func (a *WSTradeAPI) ReqCustLogout(msg *ReqCustLogout) error {
	return a.send(frameReqCustLogout, msg)
}

func (a *WSTradeAPI) ReqCashAuctionOrder(msg *ReqCashAuctionOrder) error {
	return a.send(frameReqCashAuctionOrder, msg)
}

func (a *WSTradeAPI) ReqCancelOrder(msg *ReqCancelOrder) error {
	return a.send(frameReqCancelOrder, msg)
}

func (a *WSTradeAPI) ReqFundQuery(msg *ReqFundQuery) error {
	return a.send(frameReqFundQuery, msg)
}

func (a *WSTradeAPI) ReqShareQuery(msg *ReqShareQuery) error {
	return a.send(frameReqShareQuery, msg)
}

func (a *WSTradeAPI) ReqOrderQuery(msg *ReqOrderQuery) error {
	return a.send(frameReqOrderQuery, msg)
}

func (a *WSTradeAPI) ReqTradeOrderQuery(msg *ReqTradeOrderQuery) error {
	return a.send(frameReqTradeOrderQuery, msg)
}
