// Package controller 实现时间表的刷新控制器
// 控制器持有当前日期、当前时刻和当天的日程项，在时钟刷新和日期切换时重新计算状态，
// 并把结果发布给渲染层。所有状态只在一个事件循环goroutine中修改
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
	"github.com/Kevin-Rudy/timeblock/pkg/resolver"
)

// Snapshot 某一时刻控制器状态的只读快照
// Items与Status中的指针共享底层切片，使用方不得修改
type Snapshot struct {
	Date    core.Date
	Now     core.WallClock
	Items   []core.ScheduleItem
	Loading bool
	Status  core.Status
}

// commandKind 事件循环命令类型
type commandKind int

const (
	cmdSetDate commandKind = iota
	cmdTick
	cmdReload
)

type command struct {
	kind commandKind
	date core.Date
}

// invalidator 支持按日期丢弃缓存的数据源
type invalidator interface {
	Invalidate(date core.Date)
}

// fetchResult 一次拉取的结果，带有发起时的代号和日期
type fetchResult struct {
	generation uint64
	date       core.Date
	items      []core.ScheduleItem
	err        error
}

// Controller 刷新控制器
type Controller struct {
	source core.DataSource
	config *Config
	logger zerolog.Logger

	// 以下状态只由事件循环读写
	currentDate  core.Date
	currentNow   core.WallClock
	currentItems []core.ScheduleItem
	isLoading    bool
	generation   uint64

	// 最近一次发布的快照，供Status/Snapshot重复读取
	snapshot   Snapshot
	snapshotMu sync.RWMutex

	updates  chan Snapshot
	commands chan command
	results  chan fetchResult

	ctx    context.Context
	cancel context.CancelFunc

	stopChan chan struct{}
	doneChan chan struct{}

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool
}

// New 创建刷新控制器，需要调用Start后才会处理命令
func New(source core.DataSource, config *Config, logger zerolog.Logger) (*Controller, error) {
	if source == nil {
		return nil, errors.New("必须指定数据源")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:    source,
		config:    config,
		logger:    logger.With().Str("component", "controller").Logger(),
		isLoading: true,
		updates:   make(chan Snapshot, config.UpdateBuffer),
		commands:  make(chan command, 16),
		results:   make(chan fetchResult, 4),
		ctx:       ctx,
		cancel:    cancel,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
	c.currentNow = c.readClock()
	c.snapshot = c.buildSnapshot()

	return c, nil
}

// Start 启动事件循环（非阻塞），重复调用无效
func (c *Controller) Start() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.started || c.stopped {
		return
	}
	c.started = true

	go c.run()
}

// Stop 停止定时刷新和事件循环，并关闭Updates通道
// 可以重复调用；正在进行的拉取会被取消，其结果被丢弃
func (c *Controller) Stop() {
	c.lifecycleMu.Lock()
	if c.stopped {
		c.lifecycleMu.Unlock()
		return
	}
	c.stopped = true
	started := c.started
	c.lifecycleMu.Unlock()

	close(c.stopChan)
	c.cancel()

	if started {
		<-c.doneChan
	} else {
		close(c.updates)
	}
}

// SetDate 请求切换到指定日期，与当前日期相同时不做任何事
func (c *Controller) SetDate(date core.Date) {
	c.send(command{kind: cmdSetDate, date: date})
}

// Tick 用实时时钟刷新当前时刻并重新计算状态
// 设置了固定时刻时当前时刻保持不变
func (c *Controller) Tick() {
	c.send(command{kind: cmdTick})
}

// Reload 强制重新拉取当前日期的时间表
func (c *Controller) Reload() {
	c.send(command{kind: cmdReload})
}

// Updates 返回状态更新通道，每次状态变化都会发布一个快照
// 消费者跟不上时只保留最新的快照；Stop后通道被关闭
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// Snapshot 返回最近一次计算出的快照
func (c *Controller) Snapshot() Snapshot {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()
	return c.snapshot
}

// Status 返回最近一次计算出的状态
func (c *Controller) Status() core.Status {
	return c.Snapshot().Status
}

// send 把命令投递给事件循环，控制器停止后直接丢弃
func (c *Controller) send(cmd command) {
	select {
	case <-c.stopChan:
		return
	default:
	}

	select {
	case c.commands <- cmd:
	case <-c.stopChan:
	}
}

// run 事件循环
func (c *Controller) run() {
	defer close(c.doneChan)
	defer close(c.updates)

	// 没有固定时刻时才启动定时器
	var tickChan <-chan time.Time
	if c.config.NowOverride == nil {
		ticker := time.NewTicker(c.config.TickInterval)
		defer ticker.Stop()
		tickChan = ticker.C
	}

	c.publish()

	for {
		select {
		case cmd := <-c.commands:
			c.handleCommand(cmd)

		case result := <-c.results:
			c.handleResult(result)

		case <-tickChan:
			c.handleTick()

		case <-c.stopChan:
			return
		}
	}
}

// handleCommand 处理外部命令
func (c *Controller) handleCommand(cmd command) {
	switch cmd.kind {
	case cmdSetDate:
		if cmd.date == c.currentDate {
			return
		}
		c.currentDate = cmd.date
		c.beginReload()

	case cmdReload:
		if c.currentDate == "" {
			return
		}
		// 带缓存的数据源需要先丢弃当天的缓存
		if inv, ok := c.source.(invalidator); ok {
			inv.Invalidate(c.currentDate)
		}
		c.beginReload()

	case cmdTick:
		c.handleTick()
	}
}

// beginReload 进入加载状态并异步拉取当前日期的时间表
func (c *Controller) beginReload() {
	c.generation++
	c.isLoading = true

	c.logger.Debug().
		Str("date", c.currentDate.String()).
		Uint64("generation", c.generation).
		Msg("reloading timetable")

	c.publish()

	go c.fetch(c.generation, c.currentDate)
}

// fetch 在独立goroutine中拉取数据，并把结果送回事件循环
func (c *Controller) fetch(generation uint64, date core.Date) {
	ctx, cancel := context.WithTimeout(c.ctx, c.config.FetchTimeout)
	defer cancel()

	items, err := c.source.FetchItems(ctx, date)

	select {
	case c.results <- fetchResult{generation: generation, date: date, items: items, err: err}:
	case <-c.stopChan:
	}
}

// handleResult 应用拉取结果，发起后日期已变化的结果直接丢弃
func (c *Controller) handleResult(result fetchResult) {
	if result.generation != c.generation || result.date != c.currentDate {
		reloadsTotal.WithLabelValues("stale").Inc()
		c.logger.Debug().
			Str("date", result.date.String()).
			Uint64("generation", result.generation).
			Uint64("current_generation", c.generation).
			Msg("discarding stale timetable result")
		return
	}

	c.isLoading = false

	switch {
	case result.err != nil:
		// 对用户而言与“当天没有日程”完全相同
		reloadsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().
			Err(result.err).
			Str("date", result.date.String()).
			Msg("failed to fetch timetable")
		c.currentItems = nil

	case len(result.items) == 0:
		reloadsTotal.WithLabelValues("empty").Inc()
		c.currentItems = nil

	default:
		reloadsTotal.WithLabelValues("ok").Inc()
		if !core.IsSorted(result.items) {
			c.logger.Warn().
				Str("date", result.date.String()).
				Msg("data source returned unsorted timetable")
		}
		c.currentItems = result.items
	}

	c.currentNow = c.readClock()
	c.publish()
}

// handleTick 刷新当前时刻并重新计算状态
func (c *Controller) handleTick() {
	ticksTotal.Inc()
	c.currentNow = c.readClock()
	c.publish()
}

// readClock 返回当前时刻，固定时刻优先
func (c *Controller) readClock() core.WallClock {
	if c.config.NowOverride != nil {
		return *c.config.NowOverride
	}
	return core.WallClockFromTime(c.config.now())
}

// deriveStatus 由当前状态推导出Status，空日程时从不调用解析器
func (c *Controller) deriveStatus() core.Status {
	if c.isLoading {
		return core.Status{Kind: core.StatusLoading}
	}
	if len(c.currentItems) == 0 {
		return core.Status{Kind: core.StatusNoSchedule}
	}
	return resolver.Resolve(c.currentNow, c.currentItems)
}

// buildSnapshot 构造当前状态的快照
func (c *Controller) buildSnapshot() Snapshot {
	return Snapshot{
		Date:    c.currentDate,
		Now:     c.currentNow,
		Items:   c.currentItems,
		Loading: c.isLoading,
		Status:  c.deriveStatus(),
	}
}

// publish 缓存新快照并发布给消费者，通道满时丢弃最旧的快照
func (c *Controller) publish() {
	snap := c.buildSnapshot()

	c.snapshotMu.Lock()
	c.snapshot = snap
	c.snapshotMu.Unlock()

	for {
		select {
		case c.updates <- snap:
			return
		default:
		}

		select {
		case <-c.updates:
		default:
		}
	}
}
