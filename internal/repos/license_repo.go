package repos

import (
	"bizdir/internal/domain"

	"github.com/jmoiron/sqlx"
)

type LicenseRepo struct{ db *sqlx.DB }

func NewLicenseRepo(db *sqlx.DB) *LicenseRepo { return &LicenseRepo{db: db} }

type licenseRow struct {
	ID          string `db:"id"`
	ProfileID   string `db:"profile_id"`
	Name        string `db:"name"`
	Number      string `db:"number"`
	URL         string `db:"url"`
	Description string `db:"description"`
}

func (r *LicenseRepo) Create(id, profileID string, l domain.License) error {
	_, err := r.db.Exec(`
	  INSERT INTO licenses(id,profile_id,name,number,url,description)
	  VALUES(?,?,?,?,?,?)`, id, profileID, l.Name, l.Number, l.URL, l.Description)
	return err
}

func (r *LicenseRepo) ListByProfile(profileID string) ([]domain.License, error) {
	var rows []licenseRow
	err := r.db.Select(&rows, `
	  SELECT id, profile_id, name, number, url, description
	  FROM licenses WHERE profile_id=? ORDER BY name`, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.License, 0, len(rows))
	for _, l := range rows {
		out = append(out, domain.License{Name: l.Name, Number: l.Number, URL: l.URL, Description: l.Description})
	}
	return out, nil
}
