package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bizdir/internal/domain"
	"bizdir/internal/repos"

	"github.com/google/uuid"
)

// MediaService manages gallery membership. It never returns partial gallery
// views; clients are expected to refetch the whole business after changes.
type MediaService struct {
	Media    *repos.MediaRepo
	Profiles *repos.ProfileRepo
	Assets   *AssetService
}

func NewMediaService(m *repos.MediaRepo, p *repos.ProfileRepo, a *AssetService) *MediaService {
	return &MediaService{Media: m, Profiles: p, Assets: a}
}

// Register links an uploaded asset path to a business as a gallery item.
func (s *MediaService) Register(businessID, assetPath string) (domain.MediaItem, error) {
	if _, err := s.Profiles.ByID(businessID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MediaItem{}, ErrNotFound
		}
		return domain.MediaItem{}, err
	}
	mediaType := "image"
	if strings.HasSuffix(assetPath, ".mp4") {
		mediaType = "video"
	}
	return s.Media.Create(uuid.NewString(), businessID, assetPath, mediaType)
}

// Delete removes a gallery item and its stored blob. A missing blob is not an
// error; the row is already gone.
func (s *MediaService) Delete(ctx context.Context, businessID, mediaID string) error {
	assetPath, err := s.Media.Delete(businessID, mediaID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	_ = s.Assets.Delete(ctx, assetPath)
	return nil
}
