package repos

import (
	"encoding/json"
	"fmt"
	"strings"

	"bizdir/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// profileRow mirrors the profiles table; the JSON columns are decoded into
// maps when converting to domain.Profile.
type profileRow struct {
	ID                 string `db:"id"`
	UserID             string `db:"user_id"`
	Slug               string `db:"slug"`
	Name               string `db:"name"`
	Description        string `db:"description"`
	Email              string `db:"email"`
	Phone              string `db:"phone"`
	Address            string `db:"address"`
	City               string `db:"city"`
	State              string `db:"state"`
	Country            string `db:"country"`
	GSTIN              string `db:"gstin"`
	Type               string `db:"type"`
	AdditionalServices string `db:"additional_services"`
	HoursJSON          string `db:"hours_json"`
	SocialsJSON        string `db:"socials_json"`
	Avatar             string `db:"avatar"`
	Banner             string `db:"banner"`
	CategoryID         string `db:"category_id"`
	SubCategoryID      string `db:"sub_category_id"`
	SubCategoryOption  string `db:"sub_category_option_id"`
	Status             int    `db:"status"`
	ExpiresAt          string `db:"expires_at"`
	CreatedAt          string `db:"created_at"`
	UpdatedAt          string `db:"updated_at"`
}

const profileCols = `
  id, user_id, slug, name, description, email, phone, address, city, state,
  country, gstin, type, additional_services, hours_json, socials_json,
  avatar, banner, category_id, sub_category_id, sub_category_option_id,
  status, expires_at, created_at, COALESCE(updated_at,'') AS updated_at`

func (row profileRow) toDomain() (domain.Profile, error) {
	p := domain.Profile{
		ID: row.ID, UserID: row.UserID, Slug: row.Slug, Name: row.Name,
		Description: row.Description, Email: row.Email, Phone: row.Phone,
		Address: row.Address, City: row.City, State: row.State,
		Country: row.Country, GSTIN: row.GSTIN, Type: row.Type,
		AdditionalServices: row.AdditionalServices,
		Avatar:             row.Avatar, Banner: row.Banner,
		Status: row.Status, ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		OperatingHours: map[string]string{}, Socials: map[string]string{},
	}
	if row.HoursJSON != "" {
		if err := json.Unmarshal([]byte(row.HoursJSON), &p.OperatingHours); err != nil {
			return p, fmt.Errorf("decode hours_json: %w", err)
		}
	}
	if row.SocialsJSON != "" {
		if err := json.Unmarshal([]byte(row.SocialsJSON), &p.Socials); err != nil {
			return p, fmt.Errorf("decode socials_json: %w", err)
		}
	}
	return p, nil
}

func (r *ProfileRepo) Create(p domain.Profile) error {
	hours, err := json.Marshal(p.OperatingHours)
	if err != nil {
		return err
	}
	socials, err := json.Marshal(p.Socials)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO profiles(
	    id, user_id, slug, name, description, email, phone, address, city, state,
	    country, gstin, type, additional_services, hours_json, socials_json,
	    avatar, banner, category_id, sub_category_id, sub_category_option_id,
	    status, expires_at
	  ) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.UserID, p.Slug, p.Name, p.Description, p.Email, p.Phone,
		p.Address, p.City, p.State, p.Country, p.GSTIN, p.Type,
		p.AdditionalServices, string(hours), string(socials),
		p.Avatar, p.Banner, "", "", "", p.Status, p.ExpiresAt)
	return err
}

func (r *ProfileRepo) ByID(id string) (domain.Profile, error) {
	var row profileRow
	if err := r.db.Get(&row, `SELECT `+profileCols+` FROM profiles WHERE id=?`, id); err != nil {
		return domain.Profile{}, err
	}
	return row.toDomain()
}

func (r *ProfileRepo) BySlug(slug string) (domain.Profile, error) {
	var row profileRow
	if err := r.db.Get(&row, `SELECT `+profileCols+` FROM profiles WHERE LOWER(slug)=LOWER(?)`, slug); err != nil {
		return domain.Profile{}, err
	}
	return row.toDomain()
}

func (r *ProfileRepo) SlugExists(slug string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM profiles WHERE LOWER(slug)=LOWER(?)`, slug); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateFields applies a partial update. Keys are column names; the caller is
// responsible for merging map-valued columns before writing.
func (r *ProfileRepo) UpdateFields(id string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}
	set := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for col, v := range fields {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	set = append(set, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.Exec(`UPDATE profiles SET `+strings.Join(set, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// ListByCategory returns one page of profiles plus the total row count for
// the same filter, so callers can derive pagination meta.
func (r *ProfileRepo) ListByCategory(categoryID, search string, limit, offset int) ([]domain.Profile, int, error) {
	where := `status = 1`
	args := []any{}
	if categoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	if search != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		q := "%" + strings.ToLower(search) + "%"
		args = append(args, q, q)
	}

	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM profiles WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	var rows []profileRow
	err := r.db.Select(&rows, `
	  SELECT `+profileCols+`
	  FROM profiles
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, count, nil
}

// Renewal lists profiles expiring within the next `days` days.
func (r *ProfileRepo) Renewal(days, limit, offset int) ([]domain.Profile, int, error) {
	where := `expires_at != '' AND expires_at <= datetime('now', ?)`
	arg := fmt.Sprintf("+%d days", days)

	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM profiles WHERE `+where, arg); err != nil {
		return nil, 0, err
	}

	var rows []profileRow
	err := r.db.Select(&rows, `
	  SELECT `+profileCols+`
	  FROM profiles
	  WHERE `+where+`
	  ORDER BY expires_at ASC
	  LIMIT ? OFFSET ?`, arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, count, nil
}

func (r *ProfileRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM profiles`)
	return n, err
}

func (r *ProfileRepo) CreatePayment(id, profileID string, amount float64, status string) error {
	_, err := r.db.Exec(`INSERT INTO payments(id,profile_id,amount,payment_status) VALUES(?,?,?,?)`,
		id, profileID, amount, status)
	return err
}

func (r *ProfileRepo) Tags(profileID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT name FROM tags WHERE profile_id=? ORDER BY name`, profileID)
	return out, err
}

func (r *ProfileRepo) Categories(profileID string) (category, subCategory, subCategoryOption string, err error) {
	var row struct {
		Category          string `db:"category_id"`
		SubCategory       string `db:"sub_category_id"`
		SubCategoryOption string `db:"sub_category_option_id"`
	}
	err = r.db.Get(&row, `SELECT category_id, sub_category_id, sub_category_option_id FROM profiles WHERE id=?`, profileID)
	return row.Category, row.SubCategory, row.SubCategoryOption, err
}
