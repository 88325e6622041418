package response

import "net/http"

// 错误码直接使用 HTTP 状态码；资源不存在在本系统中折叠为 400
var (
	ErrInvalidRequest  = newError(http.StatusBadRequest, "请求参数错误")
	ErrNotFound        = newError(http.StatusBadRequest, "资源不存在")
	ErrConflict        = newError(http.StatusBadRequest, "状态冲突")
	ErrTokenInvalid    = newError(http.StatusUnauthorized, "登录状态无效，请重新登录")
	ErrForbidden       = newError(http.StatusForbidden, "无权限执行该操作")
	ErrFileTooLarge    = newError(http.StatusBadRequest, "文件体积过大，不能超过 5MB")
	ErrDatabase        = newError(http.StatusInternalServerError, "服务器内部错误")
	ErrServerInternal  = newError(http.StatusInternalServerError, "服务器内部错误")
	ErrStorage         = newError(http.StatusInternalServerError, "文件存储失败")
	ErrStorageDisabled = newError(http.StatusBadRequest, "当前存储方式不支持该操作")
)
