package pictureBed

import (
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MaxImageSize 单个文件上限 5MB
const MaxImageSize = 5 << 20

// imageTypes 允许的类型及落盘扩展名，扩展名以文件内容为准而不是文件名
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// IsImageType 预签名上传只能声明图片类型
func IsImageType(contentType string) bool {
	_, ok := imageTypes[contentType]
	return ok
}

// openImage 校验大小与内容类型，返回已回到开头的文件
func openImage(fh *multipart.FileHeader) (multipart.File, string, string, error) {
	if fh.Size > MaxImageSize {
		return nil, "", "", ErrTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, "", "", errors.WithStack(err)
	}
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		return nil, "", "", errors.WithStack(err)
	}
	ext, ok := imageTypes[mt.String()]
	if !ok {
		file.Close()
		return nil, "", "", ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, "", "", errors.WithStack(err)
	}
	return file, mt.String(), ext, nil
}

func uniqueName(ext string) string {
	return uuid.NewString() + ext
}
