package storage

import (
	"context"
	"fmt"
	"strings"

	"social-backend/config"
)

// MediaStore 接收图片内容，返回可长期访问的 URL
type MediaStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// New 按 STORAGE_DRIVER 创建存储
func New(ctx context.Context, cfg config.Config) (MediaStore, error) {
	switch cfg.StorageDriver {
	case "local":
		return NewLocalStorage(cfg.LocalStoragePath, strings.TrimRight(cfg.BackendURL, "/")+"/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
