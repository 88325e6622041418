package pictureBed

import (
	"club-management-system/config"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"context"
	"mime/multipart"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// 上传目录分类
const (
	CategoryClubCover     = model.AssetClubCover
	CategoryClubMaterials = model.AssetClubMaterials
	CategoryActivityCover = model.AssetActivityCover
	CategoryAvatar        = model.AssetAvatar
)

var (
	ErrTooLarge   = errors.New("file too large")
	ErrNotImage   = errors.New("only images are allowed")
	ErrForeignURL = errors.New("url does not belong to this store")
)

// Store 上传文件的存放位置，Save 返回可直接访问的 URL，Delete 接收同一个 URL
type Store interface {
	Save(ctx context.Context, category string, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, fileURL string) error
	// InCategory fileURL 是否为本存储在 category 目录下直接生成的文件
	InCategory(fileURL, category string) bool
}

// inCategory rel 必须是 category 下的单个文件名，不能含 .. 或子目录
func inCategory(rel, category string) bool {
	if rel == "" || path.Clean("/" + rel)[1:] != rel {
		return false
	}
	dir, name := path.Split(rel)
	return name != "" && strings.TrimSuffix(dir, "/") == category
}

// Default 由 Init 按配置创建
var Default Store

func Init() {
	cfg := config.Get()
	log := logger.New("PictureBed")
	switch cfg.Storage.Driver {
	case config.StorageS3:
		s, err := NewS3Store(context.Background(), cfg.S3)
		tools.PanicOnErr(err)
		Default = s
		log.Info("使用 S3 存储上传文件", "bucket", cfg.S3.Bucket)
	default:
		tools.PanicOnErr(tools.EnsureDir(cfg.Storage.Home))
		Default = NewPictureBed(cfg.Storage.Home, cfg.Storage.BaseURL)
		log.Info("使用本地目录存储上传文件", "dir", cfg.Storage.Home)
	}
}
