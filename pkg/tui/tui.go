// Package tui 提供时间表的终端用户界面
// 显示当前日期、当前时刻，以及上一项/进行中/下一项
package tui

import (
	"sync"
	"time"

	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/timeblock/pkg/controller"
	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// TUI 主界面结构
type TUI struct {
	app    *tview.Application
	header *tview.TextView
	block  *tview.TextView
	footer *tview.TextView
	flex   *tview.Flex
	ctrl   *controller.Controller

	// 配置信息
	config *Config

	// 日期切换频率控制
	throttle *navigationThrottle

	// 选中的日期，按键切换时在此基础上偏移
	date   core.Date
	dateMu sync.Mutex

	// 当前日期的来源，测试中可替换
	clock func() time.Time

	// 最近一次渲染的快照
	lastSnapshot controller.Snapshot
	snapshotMu   sync.RWMutex

	// 控制
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once

	// 测试模式标志
	testMode bool
}

// NewTUI 创建新的TUI实例
func NewTUI(ctrl *controller.Controller, config *Config) *TUI {
	t := newTUI(ctrl, config)
	t.app = tview.NewApplication()
	t.header = tview.NewTextView()
	t.block = tview.NewTextView()
	t.footer = tview.NewTextView()

	t.setupUI()
	t.setupKeyBindings()

	return t
}

// NewTUIForTest 创建用于测试的TUI实例（不初始化图形组件）
func NewTUIForTest(ctrl *controller.Controller, config *Config) *TUI {
	t := newTUI(ctrl, config)
	t.testMode = true
	return t
}

func newTUI(ctrl *controller.Controller, config *Config) *TUI {
	if config == nil {
		config = DefaultConfig()
	}
	return &TUI{
		ctrl:         ctrl,
		config:       config,
		throttle:     newNavigationThrottle(config.NavigationBurst, config.NavigationRest),
		clock:        time.Now,
		lastSnapshot: ctrl.Snapshot(),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Run 启动TUI界面，阻塞直到用户退出
func (t *TUI) Run() error {
	// 启动刷新控制器
	t.ctrl.Start()

	// 启动数据处理goroutine
	go t.processData()

	// 运行应用
	err := t.app.Run()

	// 应用异常退出时也要停止控制器
	t.Stop()

	// 确保清理工作完成
	<-t.doneChan

	return err
}

// Stop 停止TUI界面，可以重复调用
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		// 先发送停止信号，让processData退出
		close(t.stopChan)

		// 停止控制器
		t.ctrl.Stop()

		// 停止应用
		if t.app != nil {
			t.app.Stop()
		}
	})
}

// processData 处理来自控制器的快照，并定时兜底重绘
func (t *TUI) processData() {
	defer close(t.doneChan)

	updates := t.ctrl.Updates()
	redrawTicker := time.NewTicker(t.config.RedrawInterval)
	defer redrawTicker.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			t.handleSnapshot(snap)

		case <-redrawTicker.C:
			t.handleSnapshot(t.ctrl.Snapshot())

		case <-t.stopChan:
			return
		}
	}
}

// handleSnapshot 记录快照并刷新界面
func (t *TUI) handleSnapshot(snap controller.Snapshot) {
	t.snapshotMu.Lock()
	t.lastSnapshot = snap
	t.snapshotMu.Unlock()

	if t.testMode || t.app == nil {
		return
	}

	select {
	case <-t.stopChan:
		return
	default:
	}

	t.safeUIUpdate(func() {
		t.header.SetText(renderHeader(snap))
		t.block.SetText(renderBlock(snap))
	})
}

// snapshot 返回最近一次渲染的快照
func (t *TUI) snapshot() controller.Snapshot {
	t.snapshotMu.RLock()
	defer t.snapshotMu.RUnlock()
	return t.lastSnapshot
}
