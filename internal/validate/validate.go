package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Slug: lowercase alphanumerics with single interior hyphens
	reSlug  = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reType  = regexp.MustCompile(`^(online|offline|hybrid)$`)
)

func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 60 {
		return "", false
	}
	return s, reSlug.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && rePhone.MatchString(s)
}

// ID validates a simple resource identifier (profile/media/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// BusinessType validates allowed business type enums.
func BusinessType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reType.MatchString(s)
}

// Page parses a positive page/limit query value with a fallback default.
func Page(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > 100 {
		return 100
	} // clamp to avoid abuse
	return n
}

// ContentType validates upload content types the asset service accepts.
func ContentType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "image/jpeg", "image/png", "image/webp", "video/mp4":
		return s, true
	}
	return "", false
}

// AssetCategory validates the storage target an upload credential is scoped to.
func AssetCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "avatar", "banner", "media", "license":
		return s, true
	}
	return "", false
}
