// Package tracing 把数据库、Redis 与存储操作挂到当前请求的 Sentry transaction 上
package tracing

import (
	"club-management-system/config"
	"context"

	"github.com/getsentry/sentry-go"
)

// IsEnabled 是否配置了 Sentry
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpan 在 ctx 中的 span 下创建子 span，没有父 span 时返回 nil
// 调用方需判空后再 Finish
func StartSpan(ctx context.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// Finish 结束 span 并根据 err 设置状态
func Finish(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
