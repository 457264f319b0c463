// Package core 定义了时间表组件的核心数据结构和接口
// 这些类型保证了解析器、刷新控制器、数据源与渲染层的完全解耦
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout 日期的标准字符串格式（yyyy-MM-dd）
const DateLayout = "2006-01-02"

// WallClock 表示一天中的时刻，精度为分钟，不含日期和时区
type WallClock struct {
	Hour   int // 小时 0-23
	Minute int // 分钟 0-59
}

// ParseWallClock 解析 "HH:MM" 格式的时刻（也接受 "H:MM"）
func ParseWallClock(s string) (WallClock, error) {
	s = strings.TrimSpace(s)
	hourPart, minutePart, ok := strings.Cut(s, ":")
	if !ok {
		return WallClock{}, fmt.Errorf("时刻格式应为HH:MM: %q", s)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || len(hourPart) == 0 || len(hourPart) > 2 {
		return WallClock{}, fmt.Errorf("无效的小时: %q", s)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || len(minutePart) != 2 {
		return WallClock{}, fmt.Errorf("无效的分钟: %q", s)
	}

	wc := WallClock{Hour: hour, Minute: minute}
	if !wc.Valid() {
		return WallClock{}, fmt.Errorf("时刻超出范围: %q", s)
	}
	return wc, nil
}

// MustParseWallClock 与ParseWallClock相同，但解析失败时panic，仅用于常量和测试
func MustParseWallClock(s string) WallClock {
	wc, err := ParseWallClock(s)
	if err != nil {
		panic(err)
	}
	return wc
}

// WallClockFromTime 从time.Time中取出时刻，丢弃秒
func WallClockFromTime(t time.Time) WallClock {
	return WallClock{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes 返回自午夜起的分钟数
func (w WallClock) Minutes() int {
	return w.Hour*60 + w.Minute
}

// Valid 检查时刻是否在合法范围内
func (w WallClock) Valid() bool {
	return w.Hour >= 0 && w.Hour < 24 && w.Minute >= 0 && w.Minute < 60
}

// String 返回补零的 "HH:MM"
func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// MarshalText 实现encoding.TextMarshaler，JSON和YAML中都以 "HH:MM" 表示
func (w WallClock) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText 实现encoding.TextUnmarshaler
func (w *WallClock) UnmarshalText(text []byte) error {
	parsed, err := ParseWallClock(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Date 日历日期标识符，字符串形式为 yyyy-MM-dd
type Date string

// ParseDate 解析并校验 yyyy-MM-dd 格式的日期
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return "", fmt.Errorf("日期格式必须是yyyy-MM-dd: %q", s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("日期格式必须是yyyy-MM-dd: %q", s)
	}
	return Date(s), nil
}

// DateOf 返回t所在的日期（使用t自身的时区）
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time 返回该日期零点（UTC）
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// AddDays 返回偏移n天后的日期，无法解析时原样返回
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// String 实现fmt.Stringer
func (d Date) String() string {
	return string(d)
}

// ScheduleItem 单个日程项，接收后不可变
type ScheduleItem struct {
	Time  WallClock `json:"time" yaml:"time"`
	Title string    `json:"title" yaml:"title"`
}

// String 返回 "HH:MM - 标题"
func (i ScheduleItem) String() string {
	return fmt.Sprintf("%s - %s", i.Time, i.Title)
}

// IsSorted 检查日程项是否按时间非递减排列
func IsSorted(items []ScheduleItem) bool {
	for i := 1; i < len(items); i++ {
		if items[i].Time.Minutes() < items[i-1].Time.Minutes() {
			return false
		}
	}
	return true
}

// SortItems 按时间稳定排序（原地），同一时刻的项保持原有顺序
// 供数据源在交付前规范化数据，解析器本身从不排序
func SortItems(items []ScheduleItem) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Time.Minutes() < items[b].Time.Minutes()
	})
}

// StatusKind 表示状态的种类
type StatusKind int

const (
	StatusLoading    StatusKind = iota // 正在加载当天的时间表
	StatusNoSchedule                   // 当天没有日程（或加载失败）
	StatusBefore                       // 当前时刻早于第一项
	StatusDuring                       // 当前时刻落在某一项的窗口内
	StatusAfter                        // 当前时刻晚于最后一项
)

// String 实现fmt.Stringer
func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusNoSchedule:
		return "no_schedule"
	case StatusBefore:
		return "before"
	case StatusDuring:
		return "during"
	case StatusAfter:
		return "after"
	default:
		return "unknown"
	}
}

// Status 解析结果。只有Kind为StatusDuring时Index和Current有意义
// Previous/Current/Next 指向当前日程切片中的元素（非拥有引用），nil表示不存在
type Status struct {
	Kind     StatusKind
	Index    int
	Previous *ScheduleItem
	Current  *ScheduleItem
	Next     *ScheduleItem
}

// DataSource 定义了时间表数据源的标准接口
// 实现者必须返回按时间升序排列的日程项；当天没有日程时返回空切片而不是错误
type DataSource interface {
	FetchItems(ctx context.Context, date Date) ([]ScheduleItem, error)
}

// ErrEmptyTitle 日程标题为空
var ErrEmptyTitle = errors.New("标题不能为空")

// NewScheduleItem 从字符串构造日程项并校验
func NewScheduleItem(clock, title string) (ScheduleItem, error) {
	wc, err := ParseWallClock(clock)
	if err != nil {
		return ScheduleItem{}, err
	}
	if strings.TrimSpace(title) == "" {
		return ScheduleItem{}, ErrEmptyTitle
	}
	return ScheduleItem{Time: wc, Title: title}, nil
}
