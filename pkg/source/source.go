// Package source 实现了core.DataSource接口，提供按日期获取时间表的能力
// 根据数据源位置自动选择HTTP服务、YAML文件或SQLite数据库实现
package source

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// ErrUnsupported 无法识别的数据源位置
var ErrUnsupported = errors.New("不支持的数据源")

// New 根据配置创建数据源，缓存开启时外层包一层按日期的缓存
func New(config *Config, logger zerolog.Logger) (core.DataSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	kind, _ := config.Kind()
	logger = logger.With().Str("component", "source").Str("kind", string(kind)).Logger()

	var (
		inner core.DataSource
		err   error
	)
	switch kind {
	case KindHTTP:
		inner, err = NewHTTPSource(config, logger)
	case KindFile:
		inner, err = NewFileSource(config.Location)
	case KindSQLite:
		inner, err = OpenStoreSource(config.SQLiteDSN(), logger)
	default:
		err = ErrUnsupported
	}
	if err != nil {
		return nil, err
	}

	var ds core.DataSource = &meteredSource{inner: inner, kind: kind}
	if config.CacheSize > 0 {
		ds = NewCachedSource(ds, config.CacheSize, config.CacheTTL)
	}
	return ds, nil
}

// Describe 返回数据源实现的描述，用于启动信息
func Describe(config *Config) string {
	kind, err := config.Kind()
	if err != nil {
		return "未知"
	}

	var desc string
	switch kind {
	case KindHTTP:
		desc = "HTTP时间表服务 (自动重试)"
	case KindFile:
		desc = "本地YAML文件"
	case KindSQLite:
		desc = "本地SQLite数据库"
	}
	if config.CacheSize > 0 {
		desc += " + 按日期缓存"
	}
	return desc
}

// Close 释放数据源持有的资源（如果有）
func Close(ds core.DataSource) error {
	if closer, ok := ds.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// meteredSource 统计每次拉取的结果
type meteredSource struct {
	inner core.DataSource
	kind  Kind
}

// FetchItems 实现core.DataSource接口
func (m *meteredSource) FetchItems(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	items, err := m.inner.FetchItems(ctx, date)
	switch {
	case err != nil:
		fetchesTotal.WithLabelValues(string(m.kind), "error").Inc()
	case len(items) == 0:
		fetchesTotal.WithLabelValues(string(m.kind), "empty").Inc()
	default:
		fetchesTotal.WithLabelValues(string(m.kind), "ok").Inc()
	}
	return items, err
}

// Close 实现io.Closer
func (m *meteredSource) Close() error {
	return Close(m.inner)
}
