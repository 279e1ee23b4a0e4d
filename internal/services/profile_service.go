package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bizdir/internal/domain"
	"bizdir/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("business does not exist or is expired")
	ErrEmptyPatch      = errors.New("no values to update")
	ErrUnknownField    = errors.New("unknown profile field")
	ErrUnknownPlatform = errors.New("unknown social platform")
)

// patchColumns maps patchable scalar fields to their columns.
var patchColumns = map[string]string{
	"name": "name", "description": "description", "email": "email",
	"phone": "phone", "address": "address", "city": "city", "state": "state",
	"country": "country", "gstin": "gstin", "type": "type",
	"additional_services": "additional_services",
	"avatar":              "avatar", "banner": "banner", "slug": "slug",
}

type ProfileService struct {
	Profiles *repos.ProfileRepo
	Media    *repos.MediaRepo
	Licenses *repos.LicenseRepo
	Users    *repos.UserRepo
}

func NewProfileService(p *repos.ProfileRepo, m *repos.MediaRepo, l *repos.LicenseRepo, u *repos.UserRepo) *ProfileService {
	return &ProfileService{Profiles: p, Media: m, Licenses: l, Users: u}
}

type CreateBusinessRequest struct {
	User struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"user"`
	Profile  domain.Profile   `json:"profile"`
	Licenses []domain.License `json:"license"`
	Payment  domain.Payment   `json:"payment"`
}

type CreateBusinessResult struct {
	User    domain.BusinessUser `json:"user"`
	Profile domain.Profile      `json:"profile"`
	License []domain.License    `json:"license"`
	Payment *domain.Payment     `json:"payment"`
}

// CreateBusiness gets-or-creates the owner by phone, creates the profile and
// any licenses, and records the payment. Profile status follows the payment:
// active only when the payment already succeeded.
func (s *ProfileService) CreateBusiness(req CreateBusinessRequest) (*CreateBusinessResult, error) {
	user, err := s.Users.ByPhone(req.User.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		user = &domain.User{ID: uuid.NewString(), Name: req.User.Name, Phone: req.User.Phone}
		if err := s.Users.Create(*user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	p := req.Profile
	p.ID = uuid.NewString()
	p.UserID = user.ID
	if p.OperatingHours == nil {
		p.OperatingHours = map[string]string{}
	}
	if p.Socials == nil {
		p.Socials = map[string]string{}
	}
	for key := range p.Socials {
		if !domain.IsSocialPlatform(key) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, key)
		}
	}
	p.Status = 0
	if req.Payment.Status == "success" {
		p.Status = 1
	}
	if err := s.Profiles.Create(p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	for _, l := range req.Licenses {
		if err := s.Licenses.Create(uuid.NewString(), p.ID, l); err != nil {
			return nil, fmt.Errorf("create license: %w", err)
		}
	}

	var payment *domain.Payment
	if req.Payment.Status != "" {
		payment = &domain.Payment{ID: uuid.NewString(), Amount: req.Payment.Amount, Status: req.Payment.Status}
		if err := s.Profiles.CreatePayment(payment.ID, p.ID, payment.Amount, payment.Status); err != nil {
			return nil, fmt.Errorf("create payment: %w", err)
		}
	}

	return &CreateBusinessResult{
		User:    domain.BusinessUser{Name: user.Name, Phone: user.Phone},
		Profile: p,
		License: req.Licenses,
		Payment: payment,
	}, nil
}

// GetBySlug assembles the editor's working aggregate for one business.
func (s *ProfileService) GetBySlug(slug string) (*domain.BusinessData, error) {
	p, err := s.Profiles.BySlug(slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user, err := s.Users.ByID(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	media, err := s.Media.ListByProfile(p.ID)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}
	licenses, err := s.Licenses.ListByProfile(p.ID)
	if err != nil {
		return nil, fmt.Errorf("load licenses: %w", err)
	}
	tags, err := s.Profiles.Tags(p.ID)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	cat, sub, opt, err := s.Profiles.Categories(p.ID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	return &domain.BusinessData{
		Profile:           p,
		User:              domain.BusinessUser{Name: user.Name, Phone: user.Phone},
		Media:             media,
		Licenses:          licenses,
		Category:          cat,
		SubCategory:       sub,
		SubCategoryOption: opt,
		Tags:              tags,
	}, nil
}

// ApplyPatch merges a partial update into a profile. Map-valued fields
// (socials, operating_hours) merge key-wise into the stored maps; scalars
// assign. The returned map is the confirmed patch in the same shape the
// caller sent, with merged maps expanded.
func (s *ProfileService) ApplyPatch(id string, patch map[string]any) (map[string]any, error) {
	if len(patch) == 0 {
		return nil, ErrEmptyPatch
	}
	current, err := s.Profiles.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]any, len(patch))
	confirmed := make(map[string]any, len(patch))

	for field, value := range patch {
		switch field {
		case "socials":
			merged, err := mergeStringMap(current.Socials, value, domain.IsSocialPlatform)
			if err != nil {
				return nil, err
			}
			raw, err := json.Marshal(merged)
			if err != nil {
				return nil, err
			}
			columns["socials_json"] = string(raw)
			confirmed["socials"] = merged
		case "operating_hours":
			merged, err := mergeStringMap(current.OperatingHours, value, nil)
			if err != nil {
				return nil, err
			}
			raw, err := json.Marshal(merged)
			if err != nil {
				return nil, err
			}
			columns["hours_json"] = string(raw)
			confirmed["operating_hours"] = merged
		default:
			col, ok := patchColumns[field]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
			}
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %s must be a string", field)
			}
			columns[col] = str
			confirmed[field] = str
		}
	}

	if err := s.Profiles.UpdateFields(id, columns); err != nil {
		return nil, err
	}
	return confirmed, nil
}

// mergeStringMap folds incoming keys into a copy of base. allow, when set,
// rejects keys outside the controlled vocabulary instead of merging them.
func mergeStringMap(base map[string]string, incoming any, allow func(string) bool) (map[string]string, error) {
	in, ok := incoming.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object value")
	}
	merged := make(map[string]string, len(base)+len(in))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range in {
		if allow != nil && !allow(k) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, k)
		}
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value for %s must be a string", k)
		}
		merged[k] = str
	}
	return merged, nil
}

func (s *ProfileService) CheckSlug(slug string) (bool, error) {
	exists, err := s.Profiles.SlugExists(slug)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// PagedProfiles is one page of results plus the filter's total row count.
type PagedProfiles struct {
	Data  []domain.Profile
	Count int
}

func (s *ProfileService) ListByCategory(categoryID, search string, page, limit int) (*PagedProfiles, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	data, count, err := s.Profiles.ListByCategory(categoryID, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &PagedProfiles{Data: data, Count: count}, nil
}

func (s *ProfileService) Renewal(days, page, limit int) (*PagedProfiles, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	data, count, err := s.Profiles.Renewal(days, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &PagedProfiles{Data: data, Count: count}, nil
}

func (s *ProfileService) Count() (int, error) {
	return s.Profiles.Count()
}
