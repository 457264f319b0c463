package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"
)

// createCliApp 创建CLI应用实例
func createCliApp() *cli.App {
	app := &cli.App{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDesc,
		Flags:   append(sourceFlags(), viewFlags()...),
		Action:  runApp,
	}

	app.Commands = createCommands()

	return app
}

// sourceFlags 数据源、刷新控制器和日志相关参数，TUI和status共用
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "时间表数据源：HTTP地址、YAML文件或SQLite数据库 (例如: http://localhost:8080, schedule.yaml, sqlite://timeblock.db)",
			EnvVars: []string{"TIMEBLOCK_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "date",
			Aliases: []string{"d"},
			Usage:   "显示的日期 yyyy-MM-dd，默认今天",
			EnvVars: []string{"TIMEBLOCK_DATE"},
		},
		&cli.StringFlag{
			Name:    "test-time",
			Usage:   "固定当前时刻 HH:MM，设置后不再定时刷新",
			EnvVars: []string{"TIMEBLOCK_TEST_TIME"},
		},
		&cli.DurationFlag{
			Name:    "tick",
			Value:   60 * time.Second,
			Usage:   "当前时刻刷新间隔 (例如: 30s, 1m)",
			EnvVars: []string{"TIMEBLOCK_TICK"},
		},
		&cli.DurationFlag{
			Name:    "fetch-timeout",
			Value:   10 * time.Second,
			Usage:   "单次请求时间表的超时时间，HTTP数据源的整次拉取还包含重试和退避",
			EnvVars: []string{"TIMEBLOCK_FETCH_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "retries",
			Value:   3,
			Usage:   "HTTP数据源的最大重试次数",
			EnvVars: []string{"TIMEBLOCK_RETRIES"},
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Value:   32,
			Usage:   "按日期缓存的条目数，0表示不缓存",
			EnvVars: []string{"TIMEBLOCK_CACHE_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   5 * time.Minute,
			Usage:   "缓存有效期",
			EnvVars: []string{"TIMEBLOCK_CACHE_TTL"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "日志级别 (debug, info, warn, error)",
			EnvVars: []string{"TIMEBLOCK_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "console",
			Usage:   "日志格式 (console, json)",
			EnvVars: []string{"TIMEBLOCK_LOG_FORMAT"},
		},
	}
}

// viewFlags TUI专用参数
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "日志文件路径，TUI模式下默认不输出日志",
			EnvVars: []string{"TIMEBLOCK_LOG_FILE"},
		},
		&cli.DurationFlag{
			Name:  "redraw",
			Value: time.Second,
			Usage: "界面兜底重绘间隔",
		},
	}
}

// storeFlags 本地SQLite存储参数
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Value:   "timeblock.db",
			Usage:   "SQLite数据库文件",
			EnvVars: []string{"TIMEBLOCK_DB"},
		},
	}
}

// createCommands 创建子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "status",
			Usage:  "输出指定日期当前时刻的日程状态后退出",
			Flags:  sourceFlags(),
			Action: runStatus,
		},
		{
			Name:  "serve",
			Usage: "运行时间表HTTP服务",
			Flags: append(storeFlags(),
				&cli.StringFlag{
					Name:    "addr",
					Value:   ":8080",
					Usage:   "监听地址",
					EnvVars: []string{"TIMEBLOCK_ADDR"},
				},
				&cli.StringFlag{
					Name:    "log-level",
					Value:   "info",
					Usage:   "日志级别 (debug, info, warn, error)",
					EnvVars: []string{"TIMEBLOCK_LOG_LEVEL"},
				},
				&cli.StringFlag{
					Name:    "log-format",
					Value:   "console",
					Usage:   "日志格式 (console, json)",
					EnvVars: []string{"TIMEBLOCK_LOG_FORMAT"},
				},
			),
			Action: runServe,
		},
		{
			Name:  "add",
			Usage: "向SQLite数据库添加一条日程",
			Flags: append(storeFlags(),
				&cli.StringFlag{
					Name:     "date",
					Aliases:  []string{"d"},
					Usage:    "日期 yyyy-MM-dd",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "time",
					Usage:    "开始时刻 HH:MM",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "title",
					Usage:    "标题",
					Required: true,
				},
			),
			Action: runAdd,
		},
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "显示详细版本信息",
			Action: func(c *cli.Context) error {
				fmt.Printf("%s v%s\n", AppName, AppVersion)
				fmt.Printf("描述: %s\n", AppDesc)
				fmt.Printf("系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
				fmt.Printf("Go版本: %s\n", runtime.Version())
				return nil
			},
		},
	}
}
