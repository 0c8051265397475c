package badgerengine

import (
	"fmt"

	"github.com/kvsd/kvs/internal/telemetry/logger"
)

// badgerLogger adapts our slog-backed logger.Logger to Badger's own
// Logger interface (Errorf/Warningf/Infof/Debugf).
type badgerLogger struct {
	log logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Info(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debug(fmt.Sprintf(format, args...))
}
