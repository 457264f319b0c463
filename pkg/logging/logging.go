// Package logging 配置进程级的zerolog日志
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 日志配置
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // console 或 json
	Writer io.Writer // 输出目标，nil时为标准错误
}

// DefaultOptions 返回默认日志配置
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: "console",
	}
}

// Validate 验证日志配置
func (o Options) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(o.Level)); err != nil || o.Level == "" {
		return fmt.Errorf("无效的日志级别: %q", o.Level)
	}
	switch o.Format {
	case "console", "json":
	default:
		return errors.New("日志格式必须是console或json")
	}
	return nil
}

// Setup 按配置创建logger并设置为全局logger
func Setup(opts Options) (zerolog.Logger, error) {
	if err := opts.Validate(); err != nil {
		return zerolog.Nop(), err
	}

	level, _ := zerolog.ParseLevel(strings.ToLower(opts.Level))

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}

	var writer io.Writer = out
	if opts.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: out != os.Stderr && out != os.Stdout}
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger, nil
}

// OpenFile 打开（追加）日志文件，path为空时返回io.Discard
// TUI模式下日志不能写到终端，否则会破坏界面
func OpenFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
