package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/timeblock/pkg/controller"
	"github.com/Kevin-Rudy/timeblock/pkg/core"
	"github.com/Kevin-Rudy/timeblock/pkg/logging"
	"github.com/Kevin-Rudy/timeblock/pkg/server"
	"github.com/Kevin-Rudy/timeblock/pkg/source"
	"github.com/Kevin-Rudy/timeblock/pkg/tui"
)

// AppConfig 应用层配置聚合
type AppConfig struct {
	SourceConfig     *source.Config
	ControllerConfig *controller.Config
	TUIConfig        *tui.Config
	Logging          logging.Options
	LogFile          string
	Date             core.Date
}

// ServeConfig serve子命令的配置
type ServeConfig struct {
	ServerConfig *server.Config
	Logging      logging.Options
	DBPath       string
}

// buildConfigFromCLI 从命令行参数构建配置
func buildConfigFromCLI(c *cli.Context, now time.Time) (*AppConfig, error) {
	// 构建数据源配置
	sourceConfig := source.DefaultConfig()
	sourceConfig.Location = c.String("source")
	if c.IsSet("fetch-timeout") {
		sourceConfig.Timeout = c.Duration("fetch-timeout")
	}
	if c.IsSet("retries") {
		sourceConfig.MaxRetries = c.Int("retries")
	}
	if c.IsSet("cache-size") {
		sourceConfig.CacheSize = c.Int("cache-size")
	}
	if c.IsSet("cache-ttl") {
		sourceConfig.CacheTTL = c.Duration("cache-ttl")
	}

	// 构建控制器配置
	controllerConfig := controller.DefaultConfig()
	if c.IsSet("tick") {
		controllerConfig.TickInterval = c.Duration("tick")
	}
	// --fetch-timeout 是单次请求的超时，整次拉取要留出重试和退避的时间
	controllerConfig.FetchTimeout = sourceConfig.FetchBudget()
	if raw := c.String("test-time"); raw != "" {
		wc, err := core.ParseWallClock(raw)
		if err != nil {
			return nil, fmt.Errorf("--test-time: %v", err)
		}
		controllerConfig.NowOverride = &wc
	}

	// 构建 TUI 配置
	tuiConfig := tui.DefaultConfig()
	if c.IsSet("redraw") {
		tuiConfig.RedrawInterval = c.Duration("redraw")
	}

	date := core.DateOf(now)
	if raw := c.String("date"); raw != "" {
		parsed, err := core.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("--date: %v", err)
		}
		date = parsed
	}

	return &AppConfig{
		SourceConfig:     sourceConfig,
		ControllerConfig: controllerConfig,
		TUIConfig:        tuiConfig,
		Logging:          loggingFromCLI(c),
		LogFile:          c.String("log-file"),
		Date:             date,
	}, nil
}

// buildServeConfigFromCLI 从命令行参数构建serve配置
func buildServeConfigFromCLI(c *cli.Context) *ServeConfig {
	serverConfig := server.DefaultConfig()
	if c.IsSet("addr") {
		serverConfig.Addr = c.String("addr")
	}

	return &ServeConfig{
		ServerConfig: serverConfig,
		Logging:      loggingFromCLI(c),
		DBPath:       c.String("db"),
	}
}

// loggingFromCLI 读取日志参数
func loggingFromCLI(c *cli.Context) logging.Options {
	opts := logging.DefaultOptions()
	if c.IsSet("log-level") {
		opts.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		opts.Format = c.String("log-format")
	}
	return opts
}

// validateConfig 验证配置的合理性
func validateConfig(config *AppConfig) error {
	// 验证数据源配置
	if err := config.SourceConfig.Validate(); err != nil {
		return fmt.Errorf("数据源配置错误: %v", err)
	}

	// 验证控制器配置
	if err := config.ControllerConfig.Validate(); err != nil {
		return fmt.Errorf("控制器配置错误: %v", err)
	}

	// 验证 TUI 配置
	if err := config.TUIConfig.Validate(); err != nil {
		return fmt.Errorf("tui配置错误: %v", err)
	}

	// 验证日志配置
	if err := config.Logging.Validate(); err != nil {
		return fmt.Errorf("日志配置错误: %v", err)
	}

	return nil
}

// validateServeConfig 验证serve配置
func validateServeConfig(config *ServeConfig) error {
	if config.DBPath == "" {
		return fmt.Errorf("必须指定数据库文件")
	}

	if err := config.ServerConfig.Validate(); err != nil {
		return fmt.Errorf("服务配置错误: %v", err)
	}

	if err := config.Logging.Validate(); err != nil {
		return fmt.Errorf("日志配置错误: %v", err)
	}

	return nil
}
