package logger

import (
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

var zeroLevels = map[Level]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
	LevelFatal: zerolog.FatalLevel,
	LevelOff:   zerolog.Disabled,
}

// ZeroLogger writes JSON lines through zerolog. At debug level every entry
// also carries the file and line of the call site.
type ZeroLogger struct {
	out    io.Writer
	level  Level
	fields Fields
	zl     zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

type callerHook struct{}

func (callerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if _, file, line, ok := runtime.Caller(4); ok {
		e.Str("file", file).Int("line", line)
	}
}

func NewZeroLogger(out io.Writer, level Level, fields Fields) *ZeroLogger {
	l := &ZeroLogger{out: out, level: level, fields: Fields{}}
	for k, v := range fields {
		l.fields[k] = v
	}
	l.rebuild()
	return l
}

// NewConsoleLogger is the human readable variant used outside production.
func NewConsoleLogger(out io.Writer, level Level, fields Fields) *ZeroLogger {
	return NewZeroLogger(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}, level, fields)
}

func (l *ZeroLogger) rebuild() {
	zLevel, ok := zeroLevels[l.level]
	if !ok {
		zLevel = zerolog.InfoLevel
	}
	l.zl = zerolog.New(l.out).With().Fields(map[string]interface{}(l.fields)).Timestamp().Logger().Level(zLevel)
	if l.level == LevelDebug {
		l.zl = l.zl.Hook(callerHook{})
	}
}

func (l *ZeroLogger) Info(message string, properties map[string]interface{}) {
	l.zl.Info().Fields(properties).Msg(message)
}

func (l *ZeroLogger) Warn(message string, properties map[string]interface{}) {
	l.zl.Warn().Fields(properties).Msg(message)
}

func (l *ZeroLogger) Error(err error, properties map[string]interface{}) {
	l.zl.Error().Fields(properties).Err(err).Msg(err.Error())
}

// Fatal exits the process after writing the entry
func (l *ZeroLogger) Fatal(err error, properties map[string]interface{}) {
	l.zl.Fatal().Fields(properties).Err(err).Msg(err.Error())
}

func (l *ZeroLogger) Debug(message string, properties map[string]interface{}) {
	l.zl.Debug().Fields(properties).Msg(message)
}

func (l *ZeroLogger) SetLevel(level Level) {
	l.level = level
	l.rebuild()
}
