package logging

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"bimigrate/cli/internal/xdg"
)

var (
	once   sync.Once
	global *zap.Logger
)

// L returns the process-wide file logger, initializing it on first use.
// The logger writes JSON lines to the XDG state dir only, never the terminal,
// so probe traces and poll diagnostics stay out of the CLI output. If the
// state dir cannot be created the logger degrades to a no-op.
func L() *zap.Logger {
	once.Do(func() {
		global = newFileLogger()
	})
	return global
}

func newFileLogger() *zap.Logger {
	dir, err := xdg.StateDir()
	if err != nil {
		return zap.NewNop()
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "bimigrate.log"),
		MaxSize:    10, // Megabytes
		MaxBackups: 5,  // Files
		MaxAge:     30, // Days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.DebugLevel,
	)

	return zap.New(maskCore{core}, zap.AddCaller())
}

// maskCore runs every message and field value through Mask before it reaches
// the sink. Errors routinely carry DSNs and tokens in their text, and the log
// file outlives the terminal session.
type maskCore struct {
	zapcore.Core
}

func (c maskCore) With(fields []zapcore.Field) zapcore.Core {
	return maskCore{c.Core.With(maskFields(fields))}
}

func (c maskCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c maskCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = Mask(ent.Message)
	return c.Core.Write(ent, maskFields(fields))
}

func maskFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			f.String = Mask(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				out[i] = zap.String(f.Key, Mask(err.Error()))
				continue
			}
		}
		out[i] = f
	}
	return out
}
