package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
)

// 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantType string
		wantErr  bool
	}{
		{"raw base64", pixelPNG, "image/png", false},
		{"data uri", "data:image/png;base64," + pixelPNG, "image/png", false},
		{"unpadded", strings.TrimRight(pixelPNG, "="), "image/png", false},
		{"empty", "", "", true},
		{"not base64", "%%%", "", true},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("hello world")), "", true},
		{"data uri without base64", "data:image/png," + pixelPNG, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := Decode(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Equal(t, tt.wantType, contentType)
		})
	}
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media/")
	data, contentType, err := Decode(pixelPNG)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), data, contentType)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/recipes/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	file := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
	written, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, data, written)

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	// Foreign and traversal URLs are ignored.
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere/x.png"))
	assert.NoError(t, store.Delete(context.Background(), "/media/recipes/images/../../etc/passwd"))
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Store_Save(t *testing.T) {
	api := new(mockObjectAPI)
	store := newS3Store(api, "foodgram", "https://cdn.example.com/")

	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" &&
			strings.HasPrefix(*in.Key, "recipes/images/") &&
			*in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := store.Save(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/recipes/images/"))

	api.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return "https://cdn.example.com/"+*in.Key == url
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	require.NoError(t, store.Delete(context.Background(), url))

	api.AssertExpectations(t)
}

func TestS3Store_SaveError(t *testing.T) {
	api := new(mockObjectAPI)
	store := newS3Store(api, "foodgram", "https://cdn.example.com")
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := store.Save(context.Background(), []byte("png"), "image/png")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), config.MediaConfig{Storage: "local", Root: t.TempDir(), URL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.MediaConfig{Storage: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.MediaConfig{Storage: "s3"})
	assert.Error(t, err)
}

func TestDefaultPublicURL(t *testing.T) {
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com",
		defaultPublicURL(config.MediaConfig{S3Bucket: "bucket", S3Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/bucket",
		defaultPublicURL(config.MediaConfig{S3Bucket: "bucket", S3Endpoint: "http://minio:9000/"}))
}
