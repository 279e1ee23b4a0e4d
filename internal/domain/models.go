package domain

// SocialPlatforms is the controlled vocabulary for profile social links.
// Keys outside this set must never merge into a profile.
var SocialPlatforms = []string{
	"website", "facebook", "instagram", "twitter", "linkedin", "youtube",
	"reddit", "tiktok", "pinterest", "behance", "dribbble", "github", "medium",
}

func IsSocialPlatform(key string) bool {
	for _, p := range SocialPlatforms {
		if p == key {
			return true
		}
	}
	return false
}

type Profile struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"user_id"`
	Slug               string            `json:"slug"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Email              string            `json:"email"`
	Phone              string            `json:"phone"`
	Address            string            `json:"address"`
	City               string            `json:"city"`
	State              string            `json:"state"`
	Country            string            `json:"country"`
	GSTIN              string            `json:"gstin"`
	Type               string            `json:"type"` // online | offline | hybrid
	AdditionalServices string            `json:"additional_services"`
	OperatingHours     map[string]string `json:"operating_hours"`
	Socials            map[string]string `json:"socials"`
	Avatar             string            `json:"avatar"` // asset path, "" when unset
	Banner             string            `json:"banner"` // asset path, "" when unset
	Status             int               `json:"status"`
	ExpiresAt          string            `json:"expires_at"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

type MediaItem struct {
	ID   string `json:"id"`
	URL  string `json:"url"`  // asset path; prefix with the asset base to render
	Type string `json:"type"` // image | video
}

// License is read-only in the editor; rows are created only at business creation.
type License struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	URL         string `json:"url"` // asset path to the certificate image
	Description string `json:"description"`
}

type BusinessUser struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// BusinessData is the edit session's working aggregate: fetched wholesale,
// merged field-by-field after confirmed writes, refetched wholesale after any
// gallery change.
type BusinessData struct {
	Profile           Profile      `json:"profile"`
	User              BusinessUser `json:"user"`
	Media             []MediaItem  `json:"media"`
	Licenses          []License    `json:"licenses"`
	Category          string       `json:"category"`
	SubCategory       string       `json:"subCategory"`
	SubCategoryOption string       `json:"subCategoryOption"`
	Tags              []string     `json:"tags"`
}

// UploadCredential authorizes exactly one PUT of one object. Issued per
// (content type, category) pair and time-boxed by the asset service.
type UploadCredential struct {
	PresignedURL string `json:"presignedUrl"`
	AssetPath    string `json:"assetpath"`
}

type Payment struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"payment_status"`
}
