package tools

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EnsureDir 目录不存在时创建
func EnsureDir(path string) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s 不是目录", path)
		}
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// SendExcel 以附件形式返回工作簿，文件名按 RFC 5987 编码
func SendExcel(c *gin.Context, f *excelize.File, displayName string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	escaped := url.PathEscape(displayName)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.Data(http.StatusOK, ExcelContentType, buf.Bytes())
	return nil
}
