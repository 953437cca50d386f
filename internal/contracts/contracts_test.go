package contracts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStaticServiceGet(t *testing.T) {
	s := NewStaticService()
	s.Add(&ContractInfo{Code: "600000", Exchange: "SSE", Name: "浦发银行"})

	ct := s.Get("600000", "SSE")
	if ct == nil {
		t.Fatal("应查到合约")
	}
	if ct.Currency != "CNY" {
		t.Errorf("默认币种应为 CNY，实际 %s", ct.Currency)
	}
	if got := s.Get("600000", "SZSE"); got != nil {
		t.Error("不同交易所的同代码不应命中")
	}
	if got := s.Get("999999", "SSE"); got != nil {
		t.Error("未注册合约不应命中")
	}
}

func TestStaticServiceIgnoresInvalid(t *testing.T) {
	s := NewStaticService()
	s.Add(nil)
	s.Add(&ContractInfo{Code: ""})
	if got := s.Get("", ""); got != nil {
		t.Error("空合约不应注册")
	}
}

func TestLoadStaticFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.yaml")
	data := `
- code: "600000"
  exchange: SSE
  name: 浦发银行
- code: "000001"
  exchange: SZSE
  name: 平安银行
  currency: CNY
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadStaticFile(path)
	if err != nil {
		t.Fatalf("加载合约表失败: %v", err)
	}
	if ct := s.Get("600000", "SSE"); ct == nil || ct.Name != "浦发银行" {
		t.Errorf("合约表加载不完整: %+v", ct)
	}
	if ct := s.Get("000001", "SZSE"); ct == nil {
		t.Error("应查到平安银行")
	}
}

func TestLoadStaticFileMissing(t *testing.T) {
	if _, err := LoadStaticFile("/no/such/file.yaml"); err == nil {
		t.Error("文件不存在应报错")
	}
}

func TestChainOrder(t *testing.T) {
	first := NewStaticService()
	first.Add(&ContractInfo{Code: "600000", Exchange: "SSE", Name: "first"})
	second := NewStaticService()
	second.Add(&ContractInfo{Code: "600000", Exchange: "SSE", Name: "second"})
	second.Add(&ContractInfo{Code: "000001", Exchange: "SZSE", Name: "only-second"})

	chain := Chain{first, second}
	if ct := chain.Get("600000", "SSE"); ct == nil || ct.Name != "first" {
		t.Errorf("链式查询应返回第一个命中: %+v", ct)
	}
	if ct := chain.Get("000001", "SZSE"); ct == nil || ct.Name != "only-second" {
		t.Errorf("第一个未命中时应继续向后查: %+v", ct)
	}
	if ct := chain.Get("999999", "SSE"); ct != nil {
		t.Error("全部未命中应返回 nil")
	}
}
