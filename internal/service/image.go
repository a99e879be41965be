package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipedium/backend/config"
)

// ImageService stores recipe images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadRecipeImage uploads an image for the given recipe and returns its
// public URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.bucketURLPrefix() + key, nil
}

// DownloadURL resolves a stored image URL to one a client can fetch. Objects
// in the service's bucket get a short-lived presigned URL so the bucket can
// stay private; anything else (the default image, external URLs) passes
// through unchanged.
func (s *ImageService) DownloadURL(ctx context.Context, imageURL string) (string, error) {
	key, ok := strings.CutPrefix(imageURL, s.bucketURLPrefix())
	if !ok {
		return imageURL, nil
	}
	return s.s3Config.GeneratePresignedURL(ctx, key, 15*time.Minute)
}

func (s *ImageService) bucketURLPrefix() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3Config.BucketName)
}
