package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/timeblock/pkg/controller"
	"github.com/Kevin-Rudy/timeblock/pkg/core"
	"github.com/Kevin-Rudy/timeblock/pkg/logging"
	"github.com/Kevin-Rudy/timeblock/pkg/server"
	"github.com/Kevin-Rudy/timeblock/pkg/source"
	"github.com/Kevin-Rudy/timeblock/pkg/store"
	"github.com/Kevin-Rudy/timeblock/pkg/tui"
)

// runApp 主要应用逻辑处理函数：启动TUI
func runApp(c *cli.Context) error {
	if c.String("source") == "" {
		return cli.Exit("错误: 必须指定时间表数据源\n使用方法: timeblock --source <URL|文件|数据库>", 1)
	}

	// 构建配置
	appConfig, err := buildConfigFromCLI(c, time.Now())
	if err != nil {
		return cli.Exit(fmt.Sprintf("参数错误: %v", err), 1)
	}

	// 验证配置
	if err := validateConfig(appConfig); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	fmt.Printf("正在启动 %s v%s...\n", AppName, AppVersion)

	// 显示运行配置
	printRunningConfig(appConfig)

	// TUI模式下日志只能写入文件
	logFile, err := logging.OpenFile(appConfig.LogFile)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer logFile.Close()

	opts := appConfig.Logging
	opts.Writer = logFile
	logger, err := logging.Setup(opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("日志初始化失败: %v", err), 1)
	}

	ds, err := source.New(appConfig.SourceConfig, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建数据源: %v", err), 1)
	}
	defer source.Close(ds)

	ctrl, err := controller.New(ds, appConfig.ControllerConfig, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建刷新控制器: %v", err), 1)
	}

	// 显示使用说明
	printUsageInstructions()

	// 创建TUI实例并选中初始日期
	tuiInstance := tui.NewTUI(ctrl, appConfig.TUIConfig)
	tuiInstance.SetDate(appConfig.Date)

	// 启动TUI界面 - 这会阻塞直到用户退出
	if err := tuiInstance.Run(); err != nil {
		return cli.Exit(fmt.Sprintf("TUI运行出错: %v", err), 1)
	}

	fmt.Println("\n程序已退出")
	return nil
}

// runStatus 拉取一次时间表，输出当前状态后退出
func runStatus(c *cli.Context) error {
	if c.String("source") == "" {
		return cli.Exit("错误: 必须指定时间表数据源\n使用方法: timeblock status --source <URL|文件|数据库>", 1)
	}

	appConfig, err := buildConfigFromCLI(c, time.Now())
	if err != nil {
		return cli.Exit(fmt.Sprintf("参数错误: %v", err), 1)
	}
	if err := validateConfig(appConfig); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	logger, err := logging.Setup(appConfig.Logging)
	if err != nil {
		return cli.Exit(fmt.Sprintf("日志初始化失败: %v", err), 1)
	}

	ds, err := source.New(appConfig.SourceConfig, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建数据源: %v", err), 1)
	}
	defer source.Close(ds)

	snap, err := resolveOnce(c.Context, ds, appConfig, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Print(tui.PlainText(snap))
	return nil
}

// resolveOnce 启动控制器，等到指定日期加载完成后返回快照
func resolveOnce(ctx context.Context, ds core.DataSource, config *AppConfig, logger zerolog.Logger) (controller.Snapshot, error) {
	ctrl, err := controller.New(ds, config.ControllerConfig, logger)
	if err != nil {
		return controller.Snapshot{}, fmt.Errorf("无法创建刷新控制器: %v", err)
	}
	ctrl.Start()
	defer ctrl.Stop()

	ctrl.SetDate(config.Date)

	for {
		select {
		case snap, ok := <-ctrl.Updates():
			if !ok {
				return controller.Snapshot{}, fmt.Errorf("刷新控制器已停止")
			}
			if snap.Date == config.Date && !snap.Loading {
				return snap, nil
			}
		case <-ctx.Done():
			return controller.Snapshot{}, ctx.Err()
		}
	}
}

// runServe 运行时间表HTTP服务，收到中断信号后优雅退出
func runServe(c *cli.Context) error {
	serveConfig := buildServeConfigFromCLI(c)
	if err := validateServeConfig(serveConfig); err != nil {
		return cli.Exit(fmt.Sprintf("配置验证失败: %v", err), 1)
	}

	logger, err := logging.Setup(serveConfig.Logging)
	if err != nil {
		return cli.Exit(fmt.Sprintf("日志初始化失败: %v", err), 1)
	}

	st, err := store.Open(serveConfig.DBPath, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法打开数据库: %v", err), 1)
	}
	defer st.Close()

	srv, err := server.New(serveConfig.ServerConfig, st, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法创建服务: %v", err), 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("服务运行出错: %v", err), 1)
	}
	return nil
}

// runAdd 向SQLite数据库添加一条日程
func runAdd(c *cli.Context) error {
	date, err := core.ParseDate(c.String("date"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("参数错误: %v", err), 1)
	}
	item, err := core.NewScheduleItem(c.String("time"), c.String("title"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("参数错误: %v", err), 1)
	}

	st, err := store.Open(c.String("db"), zerolog.Nop())
	if err != nil {
		return cli.Exit(fmt.Sprintf("无法打开数据库: %v", err), 1)
	}
	defer st.Close()

	entry, err := st.Add(c.Context, date, item)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("已添加 %s %s (id=%s)\n", date, item, entry.ID)
	return nil
}

// printRunningConfig 打印运行配置信息
func printRunningConfig(config *AppConfig) {
	fmt.Printf("数据源: %s (%s)\n", config.SourceConfig.Location, source.Describe(config.SourceConfig))
	fmt.Printf("日期: %s\n", config.Date)
	if config.ControllerConfig.NowOverride != nil {
		fmt.Printf("固定时刻: %s\n", config.ControllerConfig.NowOverride)
	} else {
		fmt.Printf("刷新间隔: %v\n", config.ControllerConfig.TickInterval)
	}
	fmt.Printf("拉取超时: %v\n", config.ControllerConfig.FetchTimeout)
}
