// Package tui 选项模式支持
package tui

import (
	"time"
)

// Option TUI配置选项函数类型
type Option func(*Config)

// WithRedrawInterval 设置兜底重绘间隔
func WithRedrawInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.RedrawInterval = interval
	}
}

// WithNavigationThrottle 设置日期切换的频率控制
func WithNavigationThrottle(burst int, rest time.Duration) Option {
	return func(c *Config) {
		c.NavigationBurst = burst
		c.NavigationRest = rest
	}
}

// NewConfigWithOptions 使用选项模式创建TUI配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	// 应用所有选项
	for _, opt := range opts {
		opt(config)
	}

	return config
}
