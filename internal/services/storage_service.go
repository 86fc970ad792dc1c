// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/keebmarket-backend/internal/config"
)

// ObjectStore persists uploaded objects and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

type StorageService struct {
	store     ObjectStore
	maxSize   int64
	maxImages int
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var store ObjectStore
	if cfg.AWS.AccessKeyID == "" {
		// Local development stores files on disk
		store = NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	} else {
		s3Store, err := NewS3Store(cfg.AWS)
		if err != nil {
			return nil, err
		}
		store = s3Store
	}
	return NewStorageServiceWithStore(store, cfg.Storage.MaxImageSize, cfg.Storage.MaxImages), nil
}

func NewStorageServiceWithStore(store ObjectStore, maxSize int64, maxImages int) *StorageService {
	return &StorageService{
		store:     store,
		maxSize:   maxSize,
		maxImages: maxImages,
	}
}

// UploadListingImage validates and stores one listing image.
func (s *StorageService) UploadListingImage(ctx context.Context, file io.Reader, size int64) (*UploadResult, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrImageTooLarge, size, s.maxSize)
	}

	limit := s.maxSize
	if limit <= 0 {
		limit = 32 << 20
	}
	fileBytes, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if s.maxSize > 0 && int64(len(fileBytes)) > s.maxSize {
		return nil, ErrImageTooLarge
	}

	contentType, err := DetectImageType(fileBytes)
	if err != nil {
		return nil, err
	}

	key := generateObjectKey("listings", imageExtensions[contentType])
	url, err := s.store.Put(ctx, key, fileBytes, contentType)
	if err != nil {
		imageUploadsTotal.WithLabelValues(s.store.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	imageUploadsTotal.WithLabelValues(s.store.Name(), "ok").Inc()

	return &UploadResult{
		URL:      url,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// UploadListingImages stores every file concurrently. When any upload fails
// the ones that succeeded are removed again and the first error is returned.
func (s *StorageService) UploadListingImages(ctx context.Context, headers []*multipart.FileHeader) ([]UploadResult, error) {
	if s.maxImages > 0 && len(headers) > s.maxImages {
		return nil, fmt.Errorf("%w: at most %d", ErrTooManyImages, s.maxImages)
	}

	results := make([]UploadResult, len(headers))
	var mu sync.Mutex
	var stored []string

	g, gctx := errgroup.WithContext(ctx)
	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", header.Filename, err)
			}
			defer file.Close()

			result, err := s.UploadListingImage(gctx, file, header.Size)
			if err != nil {
				return err
			}

			results[i] = *result
			mu.Lock()
			stored = append(stored, result.Key)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, key := range stored {
			if delErr := s.store.Delete(context.Background(), key); delErr != nil {
				logrus.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned upload")
			}
		}
		return nil, err
	}

	return results, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// DetectImageType sniffs the content type and accepts JPEG, PNG, GIF and WebP.
func DetectImageType(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if _, ok := imageExtensions[contentType]; !ok {
		return "", fmt.Errorf("%w: detected %s", ErrInvalidImage, contentType)
	}
	return contentType, nil
}

func generateObjectKey(folder, ext string) string {
	timestamp := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("%s/%s/%s%s", folder, timestamp, uuid.New().String(), ext)
}

// S3Store writes objects to an S3 bucket or an S3-compatible endpoint.
type S3Store struct {
	client *s3.S3
	cfg    config.AWSConfig
}

func NewS3Store(cfg config.AWSConfig) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		client: s3.New(sess),
		cfg:    cfg,
	}, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.CloudFrontURL, "/"), key)
	}
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.S3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

// LocalStore writes objects below a directory served as static files.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStore) Name() string { return "local" }

func (s *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}
