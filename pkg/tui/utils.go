// Package tui 工具函数
package tui

import (
	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// formatItem 渲染 "HH:MM - 标题"，标题中的颜色标签会被转义
func formatItem(item *core.ScheduleItem) string {
	if item == nil {
		return ""
	}
	return item.Time.String() + " - " + tview.Escape(item.Title)
}

// formatSideItem 渲染上一项/下一项，不存在时显示占位文案
func formatSideItem(item *core.ScheduleItem, placeholder string) string {
	if item == nil {
		return "[gray]" + placeholder + "[-]"
	}
	return "[white]" + formatItem(item) + "[-]"
}

// safeUIUpdate 安全地执行UI更新操作
func (t *TUI) safeUIUpdate(updateFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			// 如果应用已经停止，忽略panic
		}
	}()
	t.app.QueueUpdateDraw(updateFunc)
}
