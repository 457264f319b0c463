// Package tui 布局管理模块
package tui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/timeblock/pkg/controller"
	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// 界面文案
const (
	textLoading    = "正在加载时间表..."
	textNoSchedule = "该日期没有日程。"
	textBefore     = "活动尚未开始。"
	textAfter      = "今天的日程已全部结束。"
	textNoPrevious = "无上一项"
	textNoNext     = "无下一项"
	textCurrent    = "进行中"
	textHints      = "←/→ 切换日期  t 回到今天  r 重新加载  q 退出"
)

// setupUI 设置用户界面布局
func (t *TUI) setupUI() {
	t.header.SetDynamicColors(true)
	t.header.SetTextAlign(tview.AlignCenter)

	t.block.SetDynamicColors(true)
	t.block.SetWordWrap(true)
	t.block.SetBorder(true)
	t.block.SetTitle(" 当前日程 ")

	t.footer.SetDynamicColors(true)
	t.footer.SetTextAlign(tview.AlignCenter)
	t.footer.SetText("[gray]" + textHints + "[-]")

	snap := t.snapshot()
	t.header.SetText(renderHeader(snap))
	t.block.SetText(renderBlock(snap))

	// 主垂直布局：标题行、日程块、操作提示
	t.flex = tview.NewFlex()
	t.flex.SetDirection(tview.FlexRow)
	t.flex.AddItem(t.header, 1, 0, false)
	t.flex.AddItem(t.block, 0, 1, false)
	t.flex.AddItem(t.footer, 1, 0, false)

	t.app.SetRoot(t.flex, true)
}

// renderHeader 渲染标题行：日期和当前时刻
func renderHeader(snap controller.Snapshot) string {
	return fmt.Sprintf("[yellow]%s[-]  当前时刻 [green]%s[-]", renderDate(snap.Date), snap.Now)
}

// renderBlock 按状态渲染日程块
func renderBlock(snap controller.Snapshot) string {
	status := snap.Status

	switch status.Kind {
	case core.StatusLoading:
		return "[yellow]" + textLoading + "[-]"

	case core.StatusNoSchedule:
		return "[gray]" + textNoSchedule + "[-]"

	case core.StatusBefore:
		return textBefore

	case core.StatusAfter:
		return textAfter

	case core.StatusDuring:
		var b strings.Builder
		b.WriteString(formatSideItem(status.Previous, textNoPrevious))
		b.WriteString("\n")
		fmt.Fprintf(&b, "[green::b]%s  %s[-:-:-]", formatItem(status.Current), textCurrent)
		b.WriteString("\n")
		b.WriteString(formatSideItem(status.Next, textNoNext))
		return b.String()
	}

	return ""
}

// PlainText 渲染不带颜色标签的状态文本，用于非交互输出
func PlainText(snap controller.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  当前时刻 %s\n", renderDate(snap.Date), snap.Now)

	status := snap.Status
	switch status.Kind {
	case core.StatusLoading:
		b.WriteString(textLoading)
	case core.StatusNoSchedule:
		b.WriteString(textNoSchedule)
	case core.StatusBefore:
		b.WriteString(textBefore)
	case core.StatusAfter:
		b.WriteString(textAfter)
	case core.StatusDuring:
		if status.Previous != nil {
			fmt.Fprintf(&b, "  %s\n", status.Previous)
		} else {
			fmt.Fprintf(&b, "  %s\n", textNoPrevious)
		}
		fmt.Fprintf(&b, "> %s  %s\n", status.Current, textCurrent)
		if status.Next != nil {
			fmt.Fprintf(&b, "  %s", status.Next)
		} else {
			fmt.Fprintf(&b, "  %s", textNoNext)
		}
	}

	b.WriteString("\n")
	return b.String()
}

// renderDate 日期为空时显示占位符
func renderDate(date core.Date) string {
	if date == "" {
		return "-"
	}
	return date.String()
}
