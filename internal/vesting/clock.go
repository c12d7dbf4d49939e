package vesting

import "time"

// Clock 时钟源: 返回 unix 秒, 单调不减
// 抽成接口方便测试注入固定时间
type Clock interface {
	Now() int64
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().Unix()
}

// SystemClock returns the wall-clock backed Clock.
func SystemClock() Clock {
	return systemClock{}
}
