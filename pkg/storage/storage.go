// Package storage 按 key 存取二进制资源（菜谱图片）
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound key 不存在时 Read 返回
var ErrNotFound = errors.New("storage: object not found")

// Storage 由本地文件系统与 S3 两种后端实现
type Storage interface {
	// Write 写入 r；未知大小时 size 为 -1
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read 打开对象，调用方负责关闭
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete 删除对象；key 不存在不算错误
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// URL 客户端可访问的地址
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}
