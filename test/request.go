package test

import (
	"bytes"
	"club-management-system/config"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// UseTestConfig 换成测试用配置，测试结束后恢复
func UseTestConfig(t *testing.T) *config.Config {
	t.Helper()
	old := config.Get()
	c := *old
	c.Mode = config.ModeRelease
	c.JWT = config.JWT{AccessSecret: testSecret, AccessExpire: 3600}
	c.Storage = config.Storage{Driver: config.StorageLocal, Home: t.TempDir(), BaseURL: "/uploads"}
	config.Set(&c)
	t.Cleanup(func() { config.Set(old) })
	return &c
}

// Token 为用户签发 token，角色取 u.Role
func Token(t *testing.T, u model.User) string {
	t.Helper()
	token, err := jwt.CreateToken(jwt.Payload{UserID: u.ID, Role: u.Role})
	require.NoError(t, err)
	return token
}

// DoRequest 发送 JSON 请求并解析统一响应；data 为 nil 时忽略 Data 字段
func DoRequest(t *testing.T, h http.Handler, method, path, token string, body any, data any) (int, response.ResponseBody) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var raw struct {
		response.ResponseBody
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return w.Code, raw.ResponseBody
}

// Upload 以 multipart 表单字段 file 上传 content，返回状态码、响应和 data.url
func Upload(t *testing.T, h http.Handler, path, token, filename string, content []byte) (int, response.ResponseBody, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp struct {
		response.ResponseBody
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp.ResponseBody, resp.Data.URL
}
