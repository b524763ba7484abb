// Package imagestore uploads quote photos to durable object storage and
// returns their public URLs.
package imagestore

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Image is one uploaded photo held in memory.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store persists an image and returns a URL that stays valid.
type Store interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// ObjectName builds a collision-free object key under folder, keeping the
// original file extension.
func ObjectName(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.NewString() + ext
	if folder = strings.Trim(folder, "/"); folder != "" {
		return folder + "/" + name
	}
	return name
}

// UploadEach uploads images one by one. Failed uploads are logged and left
// out of the result, so a broken upload never rejects the whole request.
// A nil store uploads nothing.
func UploadEach(ctx context.Context, store Store, log *slog.Logger, images []Image) []string {
	urls := make([]string, 0, len(images))
	if store == nil {
		if len(images) > 0 {
			log.WarnContext(ctx, "image storage not configured, dropping images", slog.Int("count", len(images)))
		}
		return urls
	}
	for _, img := range images {
		url, err := store.Upload(ctx, img)
		if err != nil {
			log.ErrorContext(ctx, "image upload failed",
				slog.String("filename", img.Filename),
				slog.Any("error", err),
			)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
