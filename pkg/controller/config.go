// Package controller 配置定义
package controller

import (
	"errors"
	"time"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// Config 刷新控制器的配置结构
type Config struct {
	TickInterval time.Duration    // 时钟刷新间隔
	FetchTimeout time.Duration    // 单次拉取时间表的超时时间
	NowOverride  *core.WallClock  // 固定的当前时刻，设置后不再启动定时刷新
	UpdateBuffer int              // 状态更新通道的缓冲区大小
	Clock        func() time.Time // 实时时钟，nil时使用time.Now
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		TickInterval: 60 * time.Second, // 每分钟刷新一次
		FetchTimeout: 10 * time.Second, // 默认10秒超时
		UpdateBuffer: 1,                // 只保留最新的状态
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("刷新间隔必须大于0")
	}

	if c.TickInterval < time.Second {
		return errors.New("刷新间隔不能小于1s")
	}

	if c.FetchTimeout <= 0 {
		return errors.New("拉取超时时间必须大于0")
	}

	if c.NowOverride != nil && !c.NowOverride.Valid() {
		return errors.New("固定时刻超出范围")
	}

	if c.UpdateBuffer <= 0 {
		return errors.New("更新通道缓冲区大小必须大于0")
	}

	return nil
}

// now 返回实时时钟的当前时间
func (c *Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}
