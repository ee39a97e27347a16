package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/d60-Lab/foodgram/pkg/apperr"
	"github.com/d60-Lab/foodgram/pkg/storage"
)

const (
	imageKeyPrefix = "recipes/images/"
	maxImageBytes  = 10 << 20
)

// ImageStore 菜谱图片：解码 data URI，识别类型后写入资源存储
type ImageStore struct {
	backend storage.Storage
	urlTTL  time.Duration
}

// NewImageStore urlTTL 只对需要签名的后端生效
func NewImageStore(backend storage.Storage, urlTTL time.Duration) *ImageStore {
	return &ImageStore{backend: backend, urlTTL: urlTTL}
}

// Save 接受 data:<mime>;base64,<payload> 或裸 base64，返回资源 key
func (s *ImageStore) Save(ctx context.Context, data string) (string, error) {
	raw, err := decodeImage(data)
	if err != nil {
		return "", err
	}
	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", apperr.Validation("image must be a picture, got %s", mt.String())
	}
	key := imageKeyPrefix + uuid.NewString() + mt.Extension()
	if err := s.backend.Write(ctx, key, bytes.NewReader(raw), int64(len(raw)), mt.String()); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

// Delete 空 key 与不存在的 key 都不是错误
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.backend.Delete(ctx, key)
}

func (s *ImageStore) URL(ctx context.Context, key string) (string, error) {
	return s.backend.URL(ctx, key, s.urlTTL)
}

func decodeImage(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if payload == "" {
		return nil, apperr.Validation("image is required")
	}
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, apperr.Validation("image must be a base64 data URI")
		}
		payload = payload[comma+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation("image is not valid base64")
	}
	if len(raw) == 0 {
		return nil, apperr.Validation("image is required")
	}
	if len(raw) > maxImageBytes {
		return nil, apperr.Validation("image exceeds %d bytes", maxImageBytes)
	}
	return raw, nil
}
