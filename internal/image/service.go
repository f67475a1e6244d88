package image

import (
	"context"

	"github.com/harris-ryder/crema/internal/db"

	"github.com/google/uuid"
)

// extByMime maps the accepted upload content types to the extension the
// stored file gets on disk.
var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// SaveImage records an uploaded image and returns the URI (the bare file
// name) under which it is stored and later served.
func (s *Service) SaveImage(ctx context.Context, userID, mimeType string) (string, error) {
	ext, ok := extByMime[mimeType]
	if !ok {
		return "", ErrUnsupportedType
	}

	uri := uuid.NewString() + ext
	_, err := s.db.Exec(ctx, `
		INSERT INTO images (uri, user_id, mime_type)
		VALUES ($1,$2,$3)
	`, uri, userID, mimeType)
	if err != nil {
		return "", err
	}
	return uri, nil
}
