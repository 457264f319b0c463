// Package controller 选项模式支持
package controller

import (
	"time"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithTickInterval 设置时钟刷新间隔
func WithTickInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.TickInterval = interval
	}
}

// WithFetchTimeout 设置拉取超时时间
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.FetchTimeout = timeout
	}
}

// WithNowOverride 固定当前时刻（测试、演示、回放）
func WithNowOverride(now core.WallClock) Option {
	return func(c *Config) {
		c.NowOverride = &now
	}
}

// WithClock 替换实时时钟
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithUpdateBuffer 设置状态更新通道的缓冲区大小
func WithUpdateBuffer(size int) Option {
	return func(c *Config) {
		c.UpdateBuffer = size
	}
}

// NewConfigWithOptions 使用选项模式创建控制器配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return config
}
