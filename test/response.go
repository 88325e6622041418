package test

import (
	"club-management-system/internal/global/response"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// ErrorEqual 比较 HTTP 状态与错误码；message 可能被业务提示替换
func ErrorEqual(t *testing.T, status int, resp response.ResponseBody, expected *response.Error) {
	t.Helper()
	require.Equal(t, int(expected.Code), status, resp.Message)
	require.Equal(t, expected.Code, resp.Code, resp.Message)
}

func NoError(t *testing.T, status int, resp response.ResponseBody) {
	t.Helper()
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, status, resp.Message)
	require.Equal(t, int32(status), resp.Code, resp.Message)
}
