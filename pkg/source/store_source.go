// Package source - SQLite实现
package source

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
	"github.com/Kevin-Rudy/timeblock/pkg/store"
)

// StoreSource 直接读取本地时间表数据库
type StoreSource struct {
	store *store.Store
}

// NewStoreSource 使用已打开的存储创建数据源
func NewStoreSource(s *store.Store) *StoreSource {
	return &StoreSource{store: s}
}

// OpenStoreSource 打开SQLite数据库并创建数据源
func OpenStoreSource(dsn string, logger zerolog.Logger) (*StoreSource, error) {
	s, err := store.Open(dsn, logger)
	if err != nil {
		return nil, err
	}
	return NewStoreSource(s), nil
}

// FetchItems 实现core.DataSource接口
func (s *StoreSource) FetchItems(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	return s.store.ItemsForDate(ctx, date)
}

// Close 关闭数据库
func (s *StoreSource) Close() error {
	return s.store.Close()
}
