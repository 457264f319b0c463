// Package source - YAML文件实现
package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// timetableFile YAML时间表文件结构
//
//	timetable:
//	  "2025-05-20":
//	    - time: "10:00"
//	      title: 开幕式
type timetableFile struct {
	Timetable map[string][]core.ScheduleItem `yaml:"timetable"`
}

// FileSource 本地YAML文件数据源，每次拉取都重新读取文件
type FileSource struct {
	path string
}

// NewFileSource 创建YAML文件数据源，文件必须存在
func NewFileSource(path string) (*FileSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("无法读取时间表文件: %w", err)
	}
	return &FileSource{path: path}, nil
}

// FetchItems 实现core.DataSource接口
func (f *FileSource) FetchItems(ctx context.Context, date core.Date) ([]core.ScheduleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("读取时间表文件失败: %w", err)
	}

	var doc timetableFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析时间表文件失败: %w", err)
	}

	items := make([]core.ScheduleItem, len(doc.Timetable[date.String()]))
	copy(items, doc.Timetable[date.String()])
	core.SortItems(items)
	return items, nil
}
