// Package source 配置定义
package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Kind 数据源类型
type Kind string

const (
	KindHTTP   Kind = "http"   // 远程时间表服务
	KindFile   Kind = "file"   // 本地YAML文件
	KindSQLite Kind = "sqlite" // 本地SQLite数据库
)

// Config 数据源的配置结构
type Config struct {
	Location     string        // 数据源位置：URL、YAML文件路径或SQLite数据库
	Timeout      time.Duration // 单次HTTP请求超时
	MaxRetries   int           // HTTP最大重试次数
	RetryWaitMin time.Duration // 重试最短等待
	RetryWaitMax time.Duration // 重试最长等待
	CacheSize    int           // 按日期缓存的条目数，0表示不缓存
	CacheTTL     time.Duration // 缓存有效期
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,       // 默认10秒超时
		MaxRetries:   3,                      // 默认重试3次
		RetryWaitMin: 500 * time.Millisecond, // 最短等待500ms
		RetryWaitMax: 5 * time.Second,        // 最长等待5秒
		CacheSize:    32,                     // 默认缓存32天
		CacheTTL:     5 * time.Minute,        // 默认缓存5分钟
	}
}

// Kind 根据Location判断数据源类型
func (c *Config) Kind() (Kind, error) {
	location := strings.TrimSpace(c.Location)
	if location == "" {
		return "", errors.New("数据源位置不能为空")
	}

	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindHTTP, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return KindSQLite, nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return KindFile, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupported, location)
}

// SQLiteDSN 返回SQLite数据源的DSN（去掉sqlite://前缀）
func (c *Config) SQLiteDSN() string {
	location := strings.TrimSpace(c.Location)
	if len(location) >= len("sqlite://") && strings.EqualFold(location[:len("sqlite://")], "sqlite://") {
		return location[len("sqlite://"):]
	}
	return location
}

// FetchBudget 返回一次完整拉取最多需要的时间
// HTTP数据源包含全部重试及其间最长的退避等待，其他数据源只有单次超时
func (c *Config) FetchBudget() time.Duration {
	kind, err := c.Kind()
	if err != nil || kind != KindHTTP {
		return c.Timeout
	}
	attempts := time.Duration(c.MaxRetries + 1)
	return c.Timeout*attempts + c.RetryWaitMax*time.Duration(c.MaxRetries)
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	kind, err := c.Kind()
	if err != nil {
		return err
	}

	if kind == KindHTTP {
		u, err := url.Parse(strings.TrimSpace(c.Location))
		if err != nil || u.Host == "" {
			return fmt.Errorf("无效的数据源URL: %s", c.Location)
		}
	}

	if kind == KindSQLite && c.SQLiteDSN() == "" {
		return errors.New("SQLite数据库路径不能为空")
	}

	if c.Timeout <= 0 {
		return errors.New("请求超时时间必须大于0")
	}

	if c.MaxRetries < 0 {
		return errors.New("重试次数不能为负数")
	}

	if c.MaxRetries > 10 {
		return errors.New("重试次数不能超过10")
	}

	if c.RetryWaitMin <= 0 || c.RetryWaitMax < c.RetryWaitMin {
		return errors.New("重试等待时间必须大于0且最长等待不能小于最短等待")
	}

	if c.CacheSize < 0 {
		return errors.New("缓存大小不能为负数")
	}

	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return errors.New("启用缓存时缓存有效期必须大于0")
	}

	return nil
}
