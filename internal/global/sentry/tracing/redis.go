package tracing

import (
	"club-management-system/config"
	"context"
	"net"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 追踪角色缓存等 Redis 命令
type RedisSentryHook struct {
	slowThreshold time.Duration // 0 表示全部保留
}

func NewRedisSentryHook() *RedisSentryHook {
	return &RedisSentryHook{
		slowThreshold: time.Duration(config.Get().Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond,
	}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		span, ctx := h.start(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		start := time.Now()
		err := next(ctx, cmd)
		if errors.Is(err, redis.Nil) {
			h.finish(span, start, nil)
		} else {
			h.finish(span, start, err)
		}
		return err
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		span, ctx := h.start(ctx, "db.redis.pipeline", pipelineDescription(cmds))
		if span != nil {
			span.SetData("redis.pipeline_length", len(cmds))
		}
		start := time.Now()
		err := next(ctx, cmds)
		h.finish(span, start, err)
		return err
	}
}

func (h *RedisSentryHook) start(ctx context.Context, op, desc string) (*sentry.Span, context.Context) {
	span := StartSpan(ctx, op, desc)
	if span == nil {
		return nil, ctx
	}
	span.SetData("db.system", "redis")
	return span, span.Context()
}

func (h *RedisSentryHook) finish(span *sentry.Span, start time.Time, err error) {
	if span == nil {
		return
	}
	if h.slowThreshold > 0 && time.Since(start) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	Finish(span, err)
}

// pipelineDescription 只列出前三个命令名
func pipelineDescription(cmds []redis.Cmder) string {
	const maxShow = 3
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i == maxShow {
			names = append(names, "...")
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	return "PIPELINE: " + strings.Join(names, ", ")
}
