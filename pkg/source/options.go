// Package source 选项模式支持
package source

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithLocation 设置数据源位置
func WithLocation(location string) Option {
	return func(c *Config) {
		c.Location = location
	}
}

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries 设置重试次数和等待区间
func WithRetries(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = max
		c.RetryWaitMin = waitMin
		c.RetryWaitMax = waitMax
	}
}

// WithCache 设置缓存大小和有效期，size为0时关闭缓存
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Config) {
		c.CacheSize = size
		c.CacheTTL = ttl
	}
}

// NewWithOptions 使用选项模式创建数据源
func NewWithOptions(logger zerolog.Logger, opts ...Option) (core.DataSource, error) {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return New(config, logger)
}
