package pictureBed

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PictureBed 把图片保存到本地目录，由 gin 的静态路由对外提供
type PictureBed struct {
	SaveDir string // 图片保存目录
	BaseURL string // 图片访问前缀
}

func NewPictureBed(saveDir, baseURL string) *PictureBed {
	return &PictureBed{
		SaveDir: saveDir,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save 保存到 SaveDir/category 下，返回 BaseURL/category/文件名
func (pb *PictureBed) Save(_ context.Context, category string, fh *multipart.FileHeader) (string, error) {
	file, _, ext, err := openImage(fh)
	if err != nil {
		return "", err
	}
	defer file.Close()

	dir := filepath.Join(pb.SaveDir, filepath.FromSlash(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}

	filename := uniqueName(ext)
	local := filepath.Join(dir, filename)
	if err := writeFile(local, file); err != nil {
		return "", err
	}
	return pb.BaseURL + "/" + path.Join(category, filename), nil
}

// writeFile 写入失败时删除已写了一半的文件
func writeFile(name string, src io.Reader) error {
	dst, err := os.Create(name)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(name)
		return errors.WithStack(err)
	}
	return nil
}

func (pb *PictureBed) InCategory(fileURL, category string) bool {
	rel, ok := strings.CutPrefix(fileURL, pb.BaseURL+"/")
	return ok && inCategory(rel, category)
}

// Delete 只删除 SaveDir 内由本实例生成的文件，文件已不存在时视为成功
func (pb *PictureBed) Delete(_ context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}
	rel, ok := strings.CutPrefix(fileURL, pb.BaseURL+"/")
	if !ok {
		return ErrForeignURL
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" {
		return ErrForeignURL
	}
	err := os.Remove(filepath.Join(pb.SaveDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return nil
}
