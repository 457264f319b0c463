// Package source - 缓存装饰器
package source

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// CachedSource 按日期缓存成功的拉取结果，失败结果从不缓存
// 缓存的切片与调用方共享，日程项按约定不可变
type CachedSource struct {
	inner core.DataSource
	cache *expirable.LRU[core.Date, []core.ScheduleItem]
}

// NewCachedSource 创建缓存数据源
func NewCachedSource(inner core.DataSource, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		cache: expirable.NewLRU[core.Date, []core.ScheduleItem](size, nil, ttl),
	}
}

// FetchItems 实现core.DataSource接口
func (c *CachedSource) FetchItems(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	if items, ok := c.cache.Get(date); ok {
		cacheTotal.WithLabelValues("hit").Inc()
		return items, nil
	}
	cacheTotal.WithLabelValues("miss").Inc()

	items, err := c.inner.FetchItems(ctx, date)
	if err != nil {
		return nil, err
	}

	c.cache.Add(date, items)
	return items, nil
}

// Invalidate 移除某一天的缓存
func (c *CachedSource) Invalidate(date core.Date) {
	c.cache.Remove(date)
}

// Close 实现io.Closer
func (c *CachedSource) Close() error {
	return Close(c.inner)
}
