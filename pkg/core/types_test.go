package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestParseWallClock 测试时刻解析
func TestParseWallClock(t *testing.T) {
	cases := []struct {
		input   string
		want    WallClock
		wantErr bool
	}{
		{"09:00", WallClock{9, 0}, false},
		{"9:05", WallClock{9, 5}, false},
		{" 23:59 ", WallClock{23, 59}, false},
		{"00:00", WallClock{0, 0}, false},
		{"24:00", WallClock{}, true},
		{"12:60", WallClock{}, true},
		{"12:5", WallClock{}, true},
		{"1200", WallClock{}, true},
		{"ab:cd", WallClock{}, true},
		{"", WallClock{}, true},
	}

	for _, c := range cases {
		got, err := ParseWallClock(c.input)
		if c.wantErr {
			if err == nil {
				t.Errorf("Expected error for %q, got %v", c.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("Expected %v for %q, got %v", c.want, c.input, got)
		}
	}
}

// TestWallClockMinutes 测试分钟换算和格式化
func TestWallClockMinutes(t *testing.T) {
	wc := WallClock{Hour: 11, Minute: 30}
	if wc.Minutes() != 690 {
		t.Errorf("Expected 690 minutes, got %d", wc.Minutes())
	}
	if wc.String() != "11:30" {
		t.Errorf("Expected '11:30', got '%s'", wc.String())
	}
	if (WallClock{Hour: 7, Minute: 5}).String() != "07:05" {
		t.Errorf("Expected zero padded '07:05', got '%s'", WallClock{Hour: 7, Minute: 5})
	}

	now := time.Date(2025, 5, 20, 14, 7, 59, 0, time.Local)
	if got := WallClockFromTime(now); got != (WallClock{14, 7}) {
		t.Errorf("Expected 14:07 from time, got %v", got)
	}
}

// TestScheduleItemJSON 测试日程项在JSON中以 "HH:MM" 字符串表示
func TestScheduleItemJSON(t *testing.T) {
	var items []ScheduleItem
	payload := `[{"time":"10:00","title":"开幕式"},{"time":"11:30","title":"演出"}]`
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[1].Time != (WallClock{11, 30}) || items[1].Title != "演出" {
		t.Errorf("Unexpected second item: %+v", items[1])
	}

	out, err := json.Marshal(items[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"time":"10:00","title":"开幕式"}` {
		t.Errorf("Unexpected JSON: %s", out)
	}

	if err := json.Unmarshal([]byte(`[{"time":"25:00","title":"x"}]`), &items); err == nil {
		t.Error("Expected error for out of range time")
	}
}

// TestScheduleItemYAML 测试YAML中的时刻解析
func TestScheduleItemYAML(t *testing.T) {
	var items []ScheduleItem
	doc := "- time: \"09:00\"\n  title: Open\n- time: \"13:15\"\n  title: Lunch\n"
	if err := yaml.Unmarshal([]byte(doc), &items); err != nil {
		t.Fatalf("YAML unmarshal failed: %v", err)
	}
	if len(items) != 2 || items[1].Time != (WallClock{13, 15}) {
		t.Errorf("Unexpected items: %+v", items)
	}
}

// TestParseDate 测试日期解析
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-05-20")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d != "2025-05-20" {
		t.Errorf("Expected 2025-05-20, got %s", d)
	}

	for _, bad := range []string{"2025-5-20", "20250520", "2025-13-01", "2025-02-30", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}

	if got := Date("2025-12-31").AddDays(1); got != "2026-01-01" {
		t.Errorf("Expected 2026-01-01, got %s", got)
	}
	if got := Date("2024-03-01").AddDays(-1); got != "2024-02-29" {
		t.Errorf("Expected 2024-02-29, got %s", got)
	}
	if got := DateOf(time.Date(2025, 5, 20, 23, 59, 0, 0, time.UTC)); got != "2025-05-20" {
		t.Errorf("Expected 2025-05-20, got %s", got)
	}
}

// TestSortItems 测试稳定排序和有序性检查
func TestSortItems(t *testing.T) {
	items := []ScheduleItem{
		{Time: WallClock{12, 0}, Title: "C"},
		{Time: WallClock{10, 0}, Title: "A1"},
		{Time: WallClock{10, 0}, Title: "A2"},
		{Time: WallClock{11, 0}, Title: "B"},
	}

	if IsSorted(items) {
		t.Error("Expected unsorted items to be detected")
	}

	SortItems(items)

	want := []string{"A1", "A2", "B", "C"}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("Expected %s at %d, got %s", title, i, items[i].Title)
		}
	}

	if !IsSorted(items) {
		t.Error("Expected items to be sorted after SortItems")
	}
	if !IsSorted(nil) {
		t.Error("Empty sequence should count as sorted")
	}
}

// TestStatusKindString 测试状态名称
func TestStatusKindString(t *testing.T) {
	names := map[StatusKind]string{
		StatusLoading:    "loading",
		StatusNoSchedule: "no_schedule",
		StatusBefore:     "before",
		StatusDuring:     "during",
		StatusAfter:      "after",
		StatusKind(42):   "unknown",
	}
	for kind, name := range names {
		if kind.String() != name {
			t.Errorf("Expected %s, got %s", name, kind.String())
		}
	}
}

// TestNewScheduleItem 测试日程项构造校验
func TestNewScheduleItem(t *testing.T) {
	item, err := NewScheduleItem("10:00", "开幕式")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if item.String() != "10:00 - 开幕式" {
		t.Errorf("Unexpected string form: %s", item)
	}

	if _, err := NewScheduleItem("10:00", "  "); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if _, err := NewScheduleItem("", "x"); err == nil {
		t.Error("Expected error for blank time")
	}
}

// mockDataSource 模拟数据源，用于测试接口约定
type mockDataSource struct {
	items map[Date][]ScheduleItem
	calls int
}

func (m *mockDataSource) FetchItems(ctx context.Context, date Date) ([]ScheduleItem, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.items[date], nil
}

// TestDataSourceInterface 测试DataSource接口
func TestDataSourceInterface(t *testing.T) {
	var source DataSource = &mockDataSource{
		items: map[Date][]ScheduleItem{
			"2025-05-20": {{Time: WallClock{9, 0}, Title: "Open"}},
		},
	}

	items, err := source.FetchItems(context.Background(), "2025-05-20")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}

	items, err = source.FetchItems(context.Background(), "2025-05-21")
	if err != nil || len(items) != 0 {
		t.Errorf("Expected empty result for unknown date, got %v (err=%v)", items, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.FetchItems(ctx, "2025-05-20"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
