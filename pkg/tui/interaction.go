// Package tui 交互控制模块
package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// navigationThrottle 日期切换频率控制，连续切换若干次后休息一段时间
type navigationThrottle struct {
	mu        sync.Mutex
	counter   int           // 事件计数器
	threshold int           // 达到后进入休息
	rest      time.Duration // 休息时长
	resting   bool          // 是否在休息状态
	lastEvent time.Time     // 最后一次事件时间
}

func newNavigationThrottle(threshold int, rest time.Duration) *navigationThrottle {
	return &navigationThrottle{threshold: threshold, rest: rest}
}

// allow 判断是否应该处理导航事件，允许时同时记录该事件
func (n *navigationThrottle) allow(now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	// 如果正在休息中，检查是否休息够了
	if n.resting {
		if now.Sub(n.lastEvent) < n.rest {
			return false
		}
		n.resting = false
		n.counter = 0
	}

	n.counter++
	n.lastEvent = now
	if n.counter >= n.threshold {
		n.resting = true
	}
	return true
}

// setupKeyBindings 设置键盘绑定
func (t *TUI) setupKeyBindings() {
	t.app.SetInputCapture(t.handleKey)
}

// handleKey 处理按键，已处理的按键返回nil
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC:
		t.Stop()
		return nil
	case tcell.KeyLeft:
		t.shiftDate(-1)
		return nil
	case tcell.KeyRight:
		t.shiftDate(1)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			t.Stop()
			return nil
		case 't', 'T':
			t.goToday()
			return nil
		case 'r', 'R':
			t.ctrl.Reload()
			return nil
		}
	}
	return event
}
