package response

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ResponseBody 所有接口统一的响应结构
type ResponseBody struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

// Success 返回 200，data 可省略
func Success(c *gin.Context, data ...any) {
	SuccessMsg(c, "success", data...)
}

// SuccessMsg 返回 200 并携带自定义提示
func SuccessMsg(c *gin.Context, msg string, data ...any) {
	body := ResponseBody{Code: http.StatusOK, Message: msg}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Created 返回 201，用于提交申请类接口
func Created(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusCreated, ResponseBody{Code: http.StatusCreated, Message: msg, Data: data})
}

// Fail 按错误码返回失败响应；非 *Error 的错误一律视为 500
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}
	c.Set(ErrorContextKey, e)
	if e.Code >= http.StatusInternalServerError {
		sentry.CaptureException(c, e)
	}

	body := ResponseBody{Code: e.Code, Message: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.AbortWithStatusJSON(int(e.Code), body)
}

// Recovery 配合 defer 使用，把 panic 转换为 500 响应
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err := fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		Fail(c, ErrServerInternal.WithOrigin(err))
	}
}
