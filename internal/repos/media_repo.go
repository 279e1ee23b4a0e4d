package repos

import (
	"bizdir/internal/domain"

	"github.com/jmoiron/sqlx"
)

type MediaRepo struct{ db *sqlx.DB }

func NewMediaRepo(db *sqlx.DB) *MediaRepo { return &MediaRepo{db: db} }

type mediaRow struct {
	ID        string `db:"id"`
	ProfileID string `db:"profile_id"`
	URL       string `db:"url"`
	Type      string `db:"type"`
}

func (r *MediaRepo) Create(id, profileID, url, mediaType string) (domain.MediaItem, error) {
	_, err := r.db.Exec(`INSERT INTO media(id,profile_id,url,type) VALUES(?,?,?,?)`,
		id, profileID, url, mediaType)
	if err != nil {
		return domain.MediaItem{}, err
	}
	return domain.MediaItem{ID: id, URL: url, Type: mediaType}, nil
}

func (r *MediaRepo) ListByProfile(profileID string) ([]domain.MediaItem, error) {
	var rows []mediaRow
	err := r.db.Select(&rows, `
	  SELECT id, profile_id, url, type FROM media
	  WHERE profile_id=? ORDER BY created_at ASC`, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MediaItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.MediaItem{ID: m.ID, URL: m.URL, Type: m.Type})
	}
	return out, nil
}

// Delete removes a media row scoped to its profile. Returns the stored asset
// path so callers can clean up the blob.
func (r *MediaRepo) Delete(profileID, mediaID string) (string, error) {
	var url string
	if err := r.db.Get(&url, `SELECT url FROM media WHERE id=? AND profile_id=?`, mediaID, profileID); err != nil {
		return "", err
	}
	if _, err := r.db.Exec(`DELETE FROM media WHERE id=? AND profile_id=?`, mediaID, profileID); err != nil {
		return "", err
	}
	return url, nil
}
