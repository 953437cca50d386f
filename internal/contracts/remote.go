package contracts

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/atpbot/goatp/pkg/cache"
)

// RemoteService 从基础数据服务按需拉取合约信息，结果走 TTL 缓存。
// 负缓存（查不到）用短 TTL，避免对未跟踪品种反复打基础数据服务。
type RemoteService struct {
	client *resty.Client

	hits   *cache.InMemoryCache[string, *ContractInfo]
	misses *cache.InMemoryCache[string, bool]
}

// NewRemoteService 创建基础数据服务客户端
func NewRemoteService(host string) *RemoteService {
	if strings.HasSuffix(host, "/") {
		host = host[:len(host)-1]
	}

	// resty 会自动从环境变量读取代理配置
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	return &RemoteService{
		client: client,
		hits:   cache.NewInMemoryCache[string, *ContractInfo](24 * time.Hour),
		misses: cache.NewInMemoryCache[string, bool](time.Minute),
	}
}

func (s *RemoteService) Get(code, exchg string) *ContractInfo {
	k := key(code, exchg)

	if ct, ok := s.hits.Get(k); ok {
		return ct
	}
	if _, ok := s.misses.Get(k); ok {
		return nil
	}

	ct, err := s.fetch(code, exchg)
	if err != nil || ct == nil {
		s.misses.Set(k, true, 0)
		return nil
	}
	s.hits.Set(k, ct, 0)
	return ct
}

// fetch 拉取单个合约
func (s *RemoteService) fetch(code, exchg string) (*ContractInfo, error) {
	var out ContractInfo
	resp, err := s.client.R().
		SetQueryParam("code", code).
		SetQueryParam("exchange", exchg).
		SetResult(&out).
		Get("/contracts")
	if err != nil {
		return nil, errors.Wrap(err, "查询合约失败")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("查询合约失败: http %d", resp.StatusCode())
	}
	if out.Code == "" {
		return nil, nil
	}
	if out.Currency == "" {
		out.Currency = "CNY"
	}
	return &out, nil
}
