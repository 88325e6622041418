package logger

import (
	"club-management-system/config"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// fanout 把同一条记录交给所有启用了该级别的 handler
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// Get 全局 Logger，第一次调用时按当前配置构建
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		instance = slog.New(newHandler(cfg)).With(
			"app_name", "club-management-system",
			"env", string(cfg.Mode),
		)
	})
	return instance
}

// New 带 module 字段的 Logger，各模块在 Init 中调用
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func newHandler(cfg *config.Config) slog.Handler {
	release := cfg.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{
		AddSource: release,
		Level:     parseLevel(cfg.Log.Level),
	}

	var base slog.Handler
	if release && cfg.Log.FilePath != "" {
		base = slog.NewJSONHandler(rotating(cfg.Log), opts)
	} else {
		base = slog.NewTextHandler(os.Stdout, opts)
	}
	if cfg.Sentry.Dsn == "" {
		return base
	}

	// Error 作为事件上报，Warn 以上作为 Sentry 日志
	toSentry := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		AddSource:  release,
	}.NewSentryHandler(context.Background())
	return fanout{base, toSentry}
}

func rotating(c config.Log) io.Writer {
	return &lumberjack.Logger{
		Filename:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

// parseLevel 无法识别的级别按 info 处理
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
