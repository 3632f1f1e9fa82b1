package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gbr-backend/shared/config"
)

// LogoService stores company logos in MinIO, one object per company under
// companies/<id>/.
type LogoService struct {
	client     *minio.Client
	bucketName string
}

func NewLogoService() (*LogoService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	// Initialize MinIO client
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &LogoService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	// Test connection and create bucket if needed
	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *LogoService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	// Check if bucket exists
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		// Create bucket
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// AllowedLogoType checks the filename extension against the configured whitelist
func AllowedLogoType(fileName string) bool {
	cfg := config.GetConfig()
	ext := strings.ToLower(path.Ext(fileName))
	for _, allowed := range strings.Split(cfg.LogoAllowedTypes, ",") {
		if ext == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// UploadLogo stores a company logo and returns its object key. Any previous
// logo for the company is replaced.
func (s *LogoService) UploadLogo(ctx context.Context, companyID uuid.UUID, file io.Reader, fileName string, fileSize int64, contentType string) (string, error) {
	objectKey := fmt.Sprintf("companies/%s/%s", companyID, path.Base(fileName))

	// Remove older logos for the company first
	if err := s.removeCompanyObjects(ctx, companyID); err != nil {
		log.Printf("Warning: could not remove previous logo objects: %v", err)
	}

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, file, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %v", err)
	}

	log.Printf("✅ Company logo uploaded: %s", objectKey)
	return objectKey, nil
}

// LogoURL returns a presigned download URL for a stored logo
func (s *LogoService) LogoURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign logo URL: %v", err)
	}
	return presigned.String(), nil
}

// RemoveLogo deletes every stored object for the company
func (s *LogoService) RemoveLogo(ctx context.Context, companyID uuid.UUID) error {
	return s.removeCompanyObjects(ctx, companyID)
}

func (s *LogoService) removeCompanyObjects(ctx context.Context, companyID uuid.UUID) error {
	prefix := fmt.Sprintf("companies/%s/", companyID)

	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return object.Err
		}
		if err := s.client.RemoveObject(ctx, s.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete %s: %v", object.Key, err)
		}
		log.Printf("🗑️ Deleted object: %s", object.Key)
	}

	return nil
}
