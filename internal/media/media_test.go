package media

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, publicURL string) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), Config{
		Endpoint:  "http://localhost:9000",
		Bucket:    "images",
		AccessKey: "minio",
		SecretKey: "minio-secret",
		PublicURL: publicURL,
	})
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return store
}

func TestPresignUpload(t *testing.T) {
	store := newTestStore(t, "https://cdn.laptopshop.vn/")

	upload, err := store.PresignUpload(context.Background(), "Products", "Ảnh Dell XPS 13.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^products/2024/05/anh-dell-xps-13-[0-9a-f]{8}\.jpg$`), upload.Key)
	assert.True(t, strings.HasPrefix(upload.UploadURL, "http://localhost:9000/images/"+upload.Key), upload.UploadURL)
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "https://cdn.laptopshop.vn/"+upload.Key, upload.PublicURL)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC), upload.ExpiresAt)
}

func TestPresignUpload_DefaultsAndEndpointURL(t *testing.T) {
	store := newTestStore(t, "")

	upload, err := store.PresignUpload(context.Background(), "", "???", "IMAGE/PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, "uploads/2024/05/image-"), upload.Key)
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, "http://localhost:9000/images/"+upload.Key, upload.PublicURL)
}

func TestPresignUpload_RejectsNonImages(t *testing.T) {
	store := newTestStore(t, "")

	_, err := store.PresignUpload(context.Background(), "products", "setup.exe", "application/octet-stream")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewStore_RequiresBucket(t *testing.T) {
	_, err := NewStore(context.Background(), Config{})
	assert.Error(t, err)
}
