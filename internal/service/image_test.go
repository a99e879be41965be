package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedium/backend/config"
)

func TestDownloadURLPassesThroughExternalURLs(t *testing.T) {
	svc := NewImageService(&config.S3Config{BucketName: "recipedium-images"})

	// URLs outside the service's bucket are never presigned.
	for _, url := range []string{
		"https://recipedium.s3.amazonaws.com/default-recipe.jpg",
		"https://cdn.example.com/photo.png",
		"",
	} {
		got, err := svc.DownloadURL(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, url, got)
	}
}
