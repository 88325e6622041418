package response

import (
	"club-management-system/internal/governance"

	"github.com/pkg/errors"
)

// Domain 把工作流返回的错误转换为响应错误：业务错误 400，权限不足 403，其余 500
func Domain(err error) *Error {
	var e *governance.Error
	if !errors.As(err, &e) {
		return ErrServerInternal.WithOrigin(err)
	}
	switch e.Kind() {
	case governance.KindForbidden:
		return ErrForbidden.WithTips(e.Error())
	case governance.KindNotFound:
		return ErrNotFound.WithTips(e.Error())
	case governance.KindConflict:
		return ErrConflict.WithTips(e.Error())
	default:
		return ErrInvalidRequest.WithTips(e.Error())
	}
}
