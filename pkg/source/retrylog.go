package source

import (
	"github.com/rs/zerolog"
)

// leveledZerolog 把retryablehttp的分级日志接到zerolog上
type leveledZerolog struct {
	inner zerolog.Logger
}

// Error 重试过程中的失败降级为WARN，最终失败由调用方记录
func (l leveledZerolog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debug().Fields(keysAndValues).Msg(msg)
}
