// Package server 配置定义
package server

import (
	"errors"
	"time"
)

// Config 时间表服务的配置结构
type Config struct {
	Addr            string        // 监听地址
	ReadTimeout     time.Duration // 读取请求超时
	WriteTimeout    time.Duration // 写响应超时
	ShutdownTimeout time.Duration // 优雅关闭等待时间
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("监听地址不能为空")
	}

	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("读写超时必须大于0")
	}

	if c.ShutdownTimeout <= 0 {
		return errors.New("关闭等待时间必须大于0")
	}

	return nil
}
