package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"tuneport/config"
)

// Object key prefixes inside the media bucket.
const (
	audioPrefix     = "audio"
	coverPrefix     = "covers"
	signaturePrefix = "signatures"
	contractPrefix  = "contracts"
)

// UploadedFile describes a stored object: the durable URL plus the echoed
// original name and size, as the upload endpoints return them.
type UploadedFile struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// MediaUploader is what the API handlers need from media storage. The
// bucket-backed Uploader is the production implementation; tests substitute
// their own.
type MediaUploader interface {
	UploadAudio(ctx context.Context, fileName string, r io.Reader, size int64) (*UploadedFile, error)
	UploadCover(ctx context.Context, fileName string, r io.Reader, size int64) (*UploadedFile, error)
	UploadSignature(ctx context.Context, pngData []byte) (*UploadedFile, error)
	UploadContractPDF(ctx context.Context, fileName string, pdfData []byte) (*UploadedFile, error)
}

// Uploader stores release media in the bucket and hands back durable URLs.
type Uploader struct {
	cfg *config.Config
}

var _ MediaUploader = (*Uploader)(nil)

// NewUploader creates an uploader over the configured bucket.
func NewUploader(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

func (u *Uploader) put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	client := GetMinioClient()
	if client == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	_, err := client.PutObject(ctx, u.cfg.MinioBucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

// objectURL builds the public URL for a stored object.
func (u *Uploader) objectURL(key string) string {
	if u.cfg.MediaBaseURL != "" {
		return strings.TrimRight(u.cfg.MediaBaseURL, "/") + "/" + key
	}
	scheme := "http"
	if u.cfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, u.cfg.MinioEndpoint, u.cfg.MinioBucket, key)
}

// objectKey builds a collision-free key preserving the file extension.
func objectKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}

// UploadAudio stores one track audio file and returns its durable reference.
func (u *Uploader) UploadAudio(ctx context.Context, fileName string, r io.Reader, size int64) (*UploadedFile, error) {
	contentType := "audio/wav"
	switch strings.ToLower(path.Ext(fileName)) {
	case ".mp3":
		contentType = "audio/mpeg"
	case ".flac":
		contentType = "audio/flac"
	case ".aiff", ".aif":
		contentType = "audio/aiff"
	}

	key := objectKey(audioPrefix, fileName)
	if err := u.put(ctx, key, contentType, r, size); err != nil {
		return nil, err
	}
	return &UploadedFile{URL: u.objectURL(key), Name: fileName, Size: size}, nil
}

// UploadCover stores a cover image.
func (u *Uploader) UploadCover(ctx context.Context, fileName string, r io.Reader, size int64) (*UploadedFile, error) {
	contentType := "image/jpeg"
	if strings.ToLower(path.Ext(fileName)) == ".png" {
		contentType = "image/png"
	}

	key := objectKey(coverPrefix, fileName)
	if err := u.put(ctx, key, contentType, r, size); err != nil {
		return nil, err
	}
	return &UploadedFile{URL: u.objectURL(key), Name: fileName, Size: size}, nil
}

// UploadSignature stores a decoded signature PNG.
func (u *Uploader) UploadSignature(ctx context.Context, pngData []byte) (*UploadedFile, error) {
	key := objectKey(signaturePrefix, "signature.png")
	if err := u.put(ctx, key, "image/png", bytes.NewReader(pngData), int64(len(pngData))); err != nil {
		return nil, err
	}
	return &UploadedFile{URL: u.objectURL(key), Name: "signature.png", Size: int64(len(pngData))}, nil
}

// UploadContractPDF stores a generated contract PDF and returns its durable URL.
func (u *Uploader) UploadContractPDF(ctx context.Context, fileName string, pdfData []byte) (*UploadedFile, error) {
	key := objectKey(contractPrefix, fileName)
	if err := u.put(ctx, key, "application/pdf", bytes.NewReader(pdfData), int64(len(pdfData))); err != nil {
		return nil, err
	}
	return &UploadedFile{URL: u.objectURL(key), Name: fileName, Size: int64(len(pdfData))}, nil
}
