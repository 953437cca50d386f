// Package config 加载应用配置。
// 优先级：环境变量 > 配置文件 > 默认值；.env 文件在加载时自动读入。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ContractsConfig 合约静态数据来源。
// File 与 RemoteHost 至少配置一个；都配置时远端优先、文件兜底。
type ContractsConfig struct {
	File       string `yaml:"file"`
	RemoteHost string `yaml:"remote_host"`
}

// TraderConfig 交易会话配置（YAML 口径，载入后转为 trader.Config）
type TraderConfig struct {
	User          string   `yaml:"user"`
	Password      string   `yaml:"password"`
	CustID        string   `yaml:"cust_id"`
	FundAccountID string   `yaml:"fund_account_id"`
	AccountID     string   `yaml:"account_id"`
	BranchID      string   `yaml:"branch_id"`
	Locations     []string `yaml:"locations"`

	OrderWay          string `yaml:"order_way"`
	ClientFeatureCode string `yaml:"client_feature_code"`

	HeartbeatIntervalSec int  `yaml:"heartbeat_interval_sec"`
	ConnectTimeoutSec    int  `yaml:"connect_timeout_sec"`
	ReconnectTime        int  `yaml:"reconnect_time"`
	QuickMode            bool `yaml:"quick_mode"`
}

// Config 应用配置
type Config struct {
	Trader    TraderConfig    `yaml:"trader"`
	Contracts ContractsConfig `yaml:"contracts"`

	DataDir     string `yaml:"data_dir"`     // ID 缓存目录
	JournalPath string `yaml:"journal_path"` // 回报流水库路径，空则不落地

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

var globalConfig *Config

// LoadFromFile 从 YAML 文件加载配置并应用环境变量覆盖
func LoadFromFile(filePath string) (*Config, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	cfg := defaults()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败 %s: %w", filePath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	globalConfig = cfg
	return cfg, nil
}

// Get 获取全局配置（如果已加载）
func Get() *Config {
	return globalConfig
}

func defaults() *Config {
	return &Config{
		Trader: TraderConfig{
			HeartbeatIntervalSec: 10,
			ConnectTimeoutSec:    5,
			ReconnectTime:        10,
		},
		DataDir:     "data",
		JournalPath: "data/journal.db",
		LogLevel:    "info",
		LogFile:     "logs/goatp.log",
	}
}

// applyEnv 环境变量覆盖，仅敏感字段与部署相关字段
func applyEnv(cfg *Config) {
	if v := getEnv("ATP_USER", ""); v != "" {
		cfg.Trader.User = v
	}
	if v := getEnv("ATP_PASSWORD", ""); v != "" {
		cfg.Trader.Password = v
	}
	if v := getEnv("ATP_CUST_ID", ""); v != "" {
		cfg.Trader.CustID = v
	}
	if v := getEnv("ATP_FUND_ACCOUNT_ID", ""); v != "" {
		cfg.Trader.FundAccountID = v
	}
	if v := getEnv("ATP_LOCATIONS", ""); v != "" {
		cfg.Trader.Locations = splitList(v)
	}
	if v := getEnv("ATP_DATA_DIR", ""); v != "" {
		cfg.DataDir = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("LOG_FILE", ""); v != "" {
		cfg.LogFile = v
	}
	cfg.Trader.ReconnectTime = parseIntEnv("ATP_RECONNECT_TIME", cfg.Trader.ReconnectTime)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Trader.User == "" {
		return fmt.Errorf("trader.user 未配置")
	}
	if c.Trader.Password == "" {
		return fmt.Errorf("trader.password 未配置")
	}
	if c.Trader.FundAccountID == "" {
		return fmt.Errorf("trader.fund_account_id 未配置")
	}
	if len(c.Trader.Locations) == 0 {
		return fmt.Errorf("trader.locations 不能为空")
	}
	if c.Contracts.File == "" && c.Contracts.RemoteHost == "" {
		return fmt.Errorf("contracts.file 与 contracts.remote_host 至少配置一个")
	}
	if c.Trader.HeartbeatIntervalSec <= 0 {
		return fmt.Errorf("trader.heartbeat_interval_sec 必须大于 0")
	}
	return nil
}

// HeartbeatInterval 心跳间隔
func (t *TraderConfig) HeartbeatInterval() time.Duration {
	return time.Duration(t.HeartbeatIntervalSec) * time.Second
}

// ConnectTimeout 单节点连接超时
func (t *TraderConfig) ConnectTimeout() time.Duration {
	return time.Duration(t.ConnectTimeoutSec) * time.Second
}

// OrderWayByte 委托方式字节，取配置串的首字节
func (t *TraderConfig) OrderWayByte() byte {
	if t.OrderWay == "" {
		return '0'
	}
	return t.OrderWay[0]
}

func splitList(str string) []string {
	parts := strings.Split(str, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
