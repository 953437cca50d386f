package domain

import "time"

// SplitTransactTime 把回报里的 transact_time（形如 20220506093000123）
// 拆成日期（YYYYMMDD）和时间（HHMMSSmmm）两部分
func SplitTransactTime(v int64) (date uint32, hhmmssmmm uint32) {
	if v < 0 {
		return 0, 0
	}
	return uint32(v / 1_000_000_000), uint32(v % 1_000_000_000)
}

// MakeTime 把 (YYYYMMDD, HHMMSSmmm) 合成毫秒时间戳（本地时区）
func MakeTime(date uint32, hhmmssmmm uint32) int64 {
	if date == 0 {
		return 0
	}
	year := int(date / 10000)
	month := time.Month(date / 100 % 100)
	day := int(date % 100)

	ms := int(hhmmssmmm % 1000)
	hms := hhmmssmmm / 1000
	hour := int(hms / 10000)
	min := int(hms / 100 % 100)
	sec := int(hms % 100)

	t := time.Date(year, month, day, hour, min, sec, ms*int(time.Millisecond), time.Local)
	return t.UnixMilli()
}

// CurDate 当前日期（YYYYMMDD），用作交易日
func CurDate() uint32 {
	now := time.Now()
	return uint32(now.Year()*10000 + int(now.Month())*100 + now.Day())
}
