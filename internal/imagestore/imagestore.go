package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"foodgram/internal/config"
)

// ErrInvalidImage is returned when a payload is not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

const imageDir = "recipes/images"

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store persists recipe images and returns their public URL.
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	// Delete removes a previously saved image. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by cfg.Storage.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Storage {
	case "", "local":
		return NewLocalStore(cfg.Root, cfg.URL), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported image storage %q", cfg.Storage)
	}
}

// Decode accepts raw base64 or a data URI ("data:image/png;base64,...") and
// returns the bytes with their sniffed content type.
func Decode(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, "", ErrInvalidImage
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", ErrInvalidImage
		}
	}

	contentType := http.DetectContentType(data)
	if _, ok := extensions[contentType]; !ok {
		return nil, "", ErrInvalidImage
	}
	return data, contentType, nil
}

func objectName(contentType string) string {
	return imageDir + "/" + uuid.New().String() + extensions[contentType]
}
