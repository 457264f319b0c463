// Package store 基于gorm的时间表持久化，按日期保存日程项
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// Entry 时间表中的一条记录
type Entry struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Date      string    `gorm:"type:varchar(10);index;not null" json:"date"`
	Time      string    `gorm:"type:varchar(5);not null" json:"time"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Entry) TableName() string {
	return "timetable_entries"
}

// Item 转换为日程项
func (e Entry) Item() (core.ScheduleItem, error) {
	wc, err := core.ParseWallClock(e.Time)
	if err != nil {
		return core.ScheduleItem{}, fmt.Errorf("记录 %s 的时刻无效: %w", e.ID, err)
	}
	return core.ScheduleItem{Time: wc, Title: e.Title}, nil
}

// Store 时间表存储
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open 打开SQLite数据库并完成表结构迁移
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	return New(db, log)
}

// New 使用已有的gorm连接创建存储
func New(db *gorm.DB, log zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}
	return &Store{
		db:     db,
		logger: log.With().Str("component", "store").Logger(),
	}, nil
}

// Close 释放数据库资源
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add 为指定日期添加日程项
func (s *Store) Add(ctx context.Context, date core.Date, item core.ScheduleItem) (Entry, error) {
	entry := Entry{
		ID:    uuid.NewString(),
		Date:  date.String(),
		Time:  item.Time.String(),
		Title: item.Title,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return Entry{}, fmt.Errorf("保存日程失败: %w", err)
	}

	s.logger.Debug().
		Str("id", entry.ID).
		Str("date", entry.Date).
		Str("time", entry.Time).
		Msg("timetable entry added")

	return entry, nil
}

// Entries 返回指定日期的全部记录，按时刻升序（同一时刻按创建顺序）
func (s *Store) Entries(ctx context.Context, date core.Date) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("date = ?", date.String()).
		Order("time ASC").
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("查询日程失败: %w", err)
	}
	return entries, nil
}

// ItemsForDate 返回指定日期按时间排序的日程项
func (s *Store) ItemsForDate(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	entries, err := s.Entries(ctx, date)
	if err != nil {
		return nil, err
	}

	items := make([]core.ScheduleItem, 0, len(entries))
	for _, entry := range entries {
		item, err := entry.Item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	// 存储的时刻都是补零的HH:MM，字符串序即时间序，这里仍按分钟数保证顺序
	core.SortItems(items)
	return items, nil
}

// Delete 删除一条记录
func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Entry{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("删除日程失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Dates 返回所有存在日程的日期，升序
func (s *Store) Dates(ctx context.Context) ([]core.Date, error) {
	var raw []string
	err := s.db.WithContext(ctx).
		Model(&Entry{}).
		Distinct().
		Order("date ASC").
		Pluck("date", &raw).Error
	if err != nil {
		return nil, fmt.Errorf("查询日期失败: %w", err)
	}

	dates := make([]core.Date, len(raw))
	for i, d := range raw {
		dates[i] = core.Date(d)
	}
	return dates, nil
}
