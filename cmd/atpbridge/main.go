package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/atpbot/goatp/internal/atp"
	"github.com/atpbot/goatp/internal/contracts"
	"github.com/atpbot/goatp/internal/domain"
	"github.com/atpbot/goatp/internal/journal"
	"github.com/atpbot/goatp/internal/trader"
	"github.com/atpbot/goatp/pkg/config"
	"github.com/atpbot/goatp/pkg/logger"
	"github.com/atpbot/goatp/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithField("component", "main")

	svc, err := buildContracts(cfg)
	if err != nil {
		log.WithError(err).Fatal("初始化合约服务失败")
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.WithError(err).Fatal("打开回报流水库失败")
		}
	}

	t := trader.New(trader.Config{
		User:              cfg.Trader.User,
		Password:          cfg.Trader.Password,
		CustID:            cfg.Trader.CustID,
		FundAccountID:     cfg.Trader.FundAccountID,
		AccountID:         cfg.Trader.AccountID,
		BranchID:          cfg.Trader.BranchID,
		Locations:         cfg.Trader.Locations,
		DataDir:           cfg.DataDir,
		OrderWay:          cfg.Trader.OrderWayByte(),
		ClientFeatureCode: cfg.Trader.ClientFeatureCode,
		HeartbeatInterval: cfg.Trader.HeartbeatInterval(),
		ConnectTimeout:    cfg.Trader.ConnectTimeout(),
		ReconnectTime:     cfg.Trader.ReconnectTime,
		QuickMode:         cfg.Trader.QuickMode,
	}, atp.NewWSTradeAPI(), svc, jnl, &loggingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := t.Connect(ctx); err != nil {
		log.WithError(err).Fatal("连接网关失败")
	}

	mgr := shutdown.NewManager()
	mgr.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		if err := t.Release(ctx); err != nil {
			log.WithError(err).Warn("会话关闭异常")
		}
	})
	mgr.OnShutdown(func(ctx context.Context, wg *sync.WaitGroup) {
		if err := jnl.Close(); err != nil {
			log.WithError(err).Warn("关闭回报流水库失败")
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.WithField("signal", sig.String()).Info("收到退出信号")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	mgr.Shutdown(shutdownCtx)
}

// buildContracts 远端服务优先，静态合约表兜底
func buildContracts(cfg *config.Config) (contracts.Service, error) {
	var chain contracts.Chain
	if cfg.Contracts.RemoteHost != "" {
		chain = append(chain, contracts.NewRemoteService(cfg.Contracts.RemoteHost))
	}
	if cfg.Contracts.File != "" {
		static, err := contracts.LoadStaticFile(cfg.Contracts.File)
		if err != nil {
			return nil, err
		}
		chain = append(chain, static)
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

// loggingSink 把归一化回报打到日志。接入撮合或风控系统时
// 用真实实现替换这里。
type loggingSink struct{}

var slog = logrus.WithField("component", "sink")

func (s *loggingSink) OnEvent(ev domain.EventType, code int32) {
	slog.WithFields(logrus.Fields{"event": ev, "code": code}).Info("连接事件")
}

func (s *loggingSink) OnLoginResult(ok bool, msg string, tradingDay uint32) {
	if !ok {
		slog.WithField("msg", msg).Error("登录失败")
		return
	}
	slog.WithField("trading_day", tradingDay).Info("登录成功")
}

func (s *loggingSink) OnRspEntrust(e *domain.Entrust, err *domain.TradingError, isCancel bool) {
	slog.WithFields(logrus.Fields{
		"entrust_id": e.EntrustID,
		"is_cancel":  isCancel,
		"error":      err.Error(),
	}).Warn("委托被拒")
}

func (s *loggingSink) OnPushOrder(o *domain.Order) {
	slog.WithFields(logrus.Fields{
		"entrust_id": o.EntrustID,
		"order_id":   o.OrderID,
		"state":      o.State,
		"vol_traded": o.VolTraded,
	}).Info("订单回报")
}

func (s *loggingSink) OnPushTrade(t *domain.Trade) {
	slog.WithFields(logrus.Fields{
		"trade_id":  t.TradeID,
		"ref_order": t.RefOrder,
		"volume":    t.Volume,
		"price":     t.Price,
	}).Info("成交回报")
}

func (s *loggingSink) OnRspAccount(a *domain.AccountInfo) {
	slog.WithFields(logrus.Fields{
		"balance":   a.Balance,
		"available": a.Available,
	}).Info("资金查询")
}

func (s *loggingSink) OnRspOrders(orders []*domain.Order) {
	slog.WithField("count", len(orders)).Info("订单查询")
}

func (s *loggingSink) OnRspTrades(trades []*domain.Trade) {
	slog.WithField("count", len(trades)).Info("成交查询")
}

func (s *loggingSink) OnRspPositions(positions []*domain.PositionItem) {
	slog.WithField("count", len(positions)).Info("持仓查询")
}
