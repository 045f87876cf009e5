package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/errs"
)

// FileStorage keeps uploaded resume files. Paths returned by Upload are
// relative keys understood by Download and Delete of the same backend.
type FileStorage interface {
	Upload(ctx context.Context, userID uint, filename string, data []byte) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// NewFileStorage picks the backend named by cfg.Type.
func NewFileStorage(ctx context.Context, cfg config.StorageConfig) (FileStorage, error) {
	switch cfg.Type {
	case config.StorageLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case config.StorageS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, errs.NewConfigError("STORAGE_TYPE", fmt.Errorf("unknown storage type %q", cfg.Type))
	}
}

// objectKey builds "resumes/<user>/<uuid><ext>". The original name is not
// part of the key so user input never reaches the filesystem.
func objectKey(userID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("resumes/%d/%s%s", userID, uuid.NewString(), ext)
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, userID uint, filename string, data []byte) (string, error) {
	key := objectKey(userID, filename)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", errs.NewStorageError("store", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		os.Remove(fullPath)
		return "", errs.NewStorageError("store", err)
	}
	return key, nil
}

func (s *LocalStorage) Download(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if os.IsNotExist(err) {
		return nil, errs.NewNotFound("file")
	}
	if err != nil {
		return nil, errs.NewStorageError("read", err)
	}
	return data, nil
}

// Delete is a no-op for files that are already gone.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	err := os.Remove(s.resolve(path))
	if err != nil && !os.IsNotExist(err) {
		return errs.NewStorageError("delete", err)
	}
	return nil
}

// resolve keeps path inside basePath.
func (s *LocalStorage) resolve(path string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	return filepath.Join(s.basePath, clean)
}

type S3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Storage{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *S3Storage) Upload(ctx context.Context, userID uint, filename string, data []byte) (string, error) {
	key := objectKey(userID, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(filename)),
	})
	if err != nil {
		return "", errs.NewStorageError("store", err)
	}
	return key, nil
}

func (s *S3Storage) Download(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, errs.NewStorageError("read", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.NewStorageError("read", err)
	}
	return data, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return errs.NewStorageError("delete", err)
	}
	return nil
}
