// Package tui 日期管理模块
package tui

import (
	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// SetDate 切换显示的日期
func (t *TUI) SetDate(date core.Date) {
	t.dateMu.Lock()
	t.date = date
	t.dateMu.Unlock()

	t.ctrl.SetDate(date)
}

// Date 返回当前选中的日期，尚未选择时为今天
func (t *TUI) Date() core.Date {
	t.dateMu.Lock()
	defer t.dateMu.Unlock()

	if t.date == "" {
		return t.today()
	}
	return t.date
}

// today 返回本地时钟的当天日期
func (t *TUI) today() core.Date {
	return core.DateOf(t.clock())
}

// shiftDate 切换到前后第days天，受频率控制
func (t *TUI) shiftDate(days int) {
	if !t.throttle.allow(t.clock()) {
		return
	}
	t.SetDate(t.Date().AddDays(days))
}

// goToday 回到今天
func (t *TUI) goToday() {
	t.SetDate(t.today())
}
