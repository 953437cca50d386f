// Package contracts 提供合约（证券）静态信息查询。
// builder 在归一化回报前必须先解析合约：解析不到的合约直接丢弃消息，
// 不产生任何领域对象，也不向上报错（宿主未跟踪的品种不制造噪音）。
package contracts

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ContractInfo 合约静态信息
type ContractInfo struct {
	Code     string `yaml:"code" json:"code"`
	Exchange string `yaml:"exchange" json:"exchange"`
	Name     string `yaml:"name" json:"name"`
	Currency string `yaml:"currency" json:"currency"`
}

// Service 合约查询服务
type Service interface {
	// Get 按 (代码, 交易所) 查询，查不到返回 nil
	Get(code, exchg string) *ContractInfo
}

// StaticService 从 YAML 合约表加载的静态实现
type StaticService struct {
	mu    sync.RWMutex
	items map[string]*ContractInfo
}

// key 合约索引键
func key(code, exchg string) string {
	return fmt.Sprintf("%s-%s", code, exchg)
}

// NewStaticService 创建空的静态服务
func NewStaticService() *StaticService {
	return &StaticService{items: make(map[string]*ContractInfo)}
}

// LoadStaticFile 从 YAML 文件加载合约表
func LoadStaticFile(path string) (*StaticService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取合约表失败: %w", err)
	}

	var items []*ContractInfo
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("解析合约表失败: %w", err)
	}

	s := NewStaticService()
	for _, it := range items {
		s.Add(it)
	}
	return s, nil
}

// Add 注册一个合约
func (s *StaticService) Add(ct *ContractInfo) {
	if ct == nil || ct.Code == "" {
		return
	}
	if ct.Currency == "" {
		ct.Currency = "CNY"
	}
	s.mu.Lock()
	s.items[key(ct.Code, ct.Exchange)] = ct
	s.mu.Unlock()
}

func (s *StaticService) Get(code, exchg string) *ContractInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[key(code, exchg)]
}

// Chain 依次查询多个服务，返回第一个命中结果
type Chain []Service

func (c Chain) Get(code, exchg string) *ContractInfo {
	for _, svc := range c {
		if ct := svc.Get(code, exchg); ct != nil {
			return ct
		}
	}
	return nil
}
