package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// coreWithLevel filters a zapcore.Core with a dynamic level. It can only
// restrict the wrapped core, never widen it, so the wrapped core is built at
// DebugLevel.
type coreWithLevel struct {
	zapcore.Core

	lvl *zap.AtomicLevel
}

func (c *coreWithLevel) Enabled(level zapcore.Level) bool {
	return c.lvl.Enabled(level) && c.Core.Enabled(level)
}

func (c *coreWithLevel) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.lvl.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

// With must re-wrap: zap returns a fresh core that would lose the filter.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{Core: c.Core.With(fields), lvl: c.lvl}
}

func wrapCoreWithLevel(l *zap.AtomicLevel) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		// Replace an existing filter instead of stacking a second one.
		if lvlCore, ok := core.(*coreWithLevel); ok {
			core = lvlCore.Core
		}
		return &coreWithLevel{Core: core, lvl: l}
	})
}
