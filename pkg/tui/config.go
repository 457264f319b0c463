// Package tui 配置定义
package tui

import (
	"errors"
	"time"
)

// Config TUI组件的配置结构
type Config struct {
	RedrawInterval  time.Duration // 兜底重绘间隔，状态变化会立即重绘
	NavigationBurst int           // 连续切换日期多少次后进入休息
	NavigationRest  time.Duration // 休息时长，期间忽略日期切换按键
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RedrawInterval:  time.Second,            // 默认每秒兜底重绘
		NavigationBurst: 5,                      // 5次切换后休息
		NavigationRest:  100 * time.Millisecond, // 休息100ms
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.RedrawInterval <= 0 {
		return errors.New("重绘间隔必须大于0")
	}

	if c.RedrawInterval < 10*time.Millisecond {
		return errors.New("重绘间隔不能小于10ms")
	}

	if c.NavigationBurst <= 0 {
		return errors.New("导航连续次数必须大于0")
	}

	if c.NavigationRest < 0 {
		return errors.New("导航休息时长不能为负数")
	}

	return nil
}
