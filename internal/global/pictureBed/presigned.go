package pictureBed

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Presigner 支持前端直传的存储
type Presigner interface {
	PresignUpload(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error)
}

type PresignedUploadRequest struct {
	Category    string
	Filename    string
	ContentType string // 只允许图片类型
	ExpiresIn   int64  // 秒，默认 15 分钟
}

type PresignedUploadResponse struct {
	UploadURL string            `json:"uploadUrl"`
	FileKey   string            `json:"fileKey"`
	FileURL   string            `json:"fileUrl"` // 上传成功后写入社团或活动的地址
	ExpiresAt time.Time         `json:"expiresAt"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"` // 上传时必须携带
}

// PresignUpload 生成 PUT 预签名地址。扩展名取自声明的类型而不是文件名
func (s *S3Store) PresignUpload(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error) {
	ext, ok := imageTypes[req.ContentType]
	if !ok {
		return nil, ErrNotImage
	}
	if req.ExpiresIn <= 0 {
		req.ExpiresIn = 900
	}
	expires := time.Duration(req.ExpiresIn) * time.Second
	key := s.key(req.Category, uniqueName(ext))

	presigned, err := s3.NewPresignClient(s.client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return nil, errors.Wrap(err, "生成预签名 URL 失败")
	}

	resp := &PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   s.fileURL(key),
		ExpiresAt: time.Now().Add(expires),
		Method:    presigned.Method,
		Headers:   map[string]string{"Content-Type": req.ContentType},
	}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			resp.Headers[k] = v[0]
		}
	}
	return resp, nil
}
