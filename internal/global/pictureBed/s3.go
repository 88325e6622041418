package pictureBed

import (
	"club-management-system/config"
	"club-management-system/internal/global/sentry/tracing"
	"context"
	"mime/multipart"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// S3Store 兼容 S3 协议的对象存储
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      config.S3
}

func NewS3Store(ctx context.Context, cfg config.S3) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket 未配置")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "加载 S3 配置失败")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Store{client: client, uploader: manager.NewUploader(client), cfg: cfg}, nil
}

func (s *S3Store) key(category, filename string) string {
	return strings.TrimLeft(path.Join(strings.Trim(s.cfg.Prefix, "/"), category, filename), "/")
}

func (s *S3Store) baseURL() string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.Endpoint, "/")
	}
	if s.cfg.UsePathStyle {
		base += "/" + s.cfg.Bucket
	}
	return base
}

func (s *S3Store) fileURL(key string) string {
	return s.baseURL() + "/" + key
}

func (s *S3Store) Save(ctx context.Context, category string, fh *multipart.FileHeader) (url string, err error) {
	span := tracing.StartSpan(ctx, "storage.s3.upload", category)
	defer func() { tracing.Finish(span, err) }()

	file, contentType, ext, err := openImage(fh)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := s.key(category, uniqueName(ext))
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "上传到 S3 失败")
	}
	return s.fileURL(key), nil
}

func (s *S3Store) InCategory(fileURL, category string) bool {
	key, ok := strings.CutPrefix(fileURL, s.baseURL()+"/")
	if !ok {
		return false
	}
	if prefix := strings.Trim(s.cfg.Prefix, "/"); prefix != "" {
		if key, ok = strings.CutPrefix(key, prefix+"/"); !ok {
			return false
		}
	}
	return inCategory(key, category)
}

func (s *S3Store) Delete(ctx context.Context, fileURL string) (err error) {
	if fileURL == "" {
		return nil
	}
	span := tracing.StartSpan(ctx, "storage.s3.delete", "")
	defer func() { tracing.Finish(span, err) }()

	key, ok := strings.CutPrefix(fileURL, s.baseURL()+"/")
	if !ok || key == "" {
		return ErrForeignURL
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "删除 S3 对象失败")
}
