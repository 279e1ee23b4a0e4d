package editor

import (
	"strings"

	"bizdir/internal/domain"
)

// nestedGroups are the profile fields addressed with dotted keys. Each maps
// the group name to its current values so sibling keys survive a merge.
var nestedGroups = map[string]func(p *domain.Profile) map[string]string{
	"socials":         func(p *domain.Profile) map[string]string { return p.Socials },
	"operating_hours": func(p *domain.Profile) map[string]string { return p.OperatingHours },
}

// Resolve turns a field key (plain "name" or dotted "socials.facebook") plus
// a new value into the minimal partial-update object to send to the store.
// Dotted keys merge shallowly at the group level: every sibling key already
// present is carried into the patch so the store write cannot clobber it.
func Resolve(field string, value any, current *domain.Profile) (map[string]any, error) {
	segs := splitField(field)
	if len(segs) == 0 {
		return nil, &ValidationError{Msg: "no values to update"}
	}

	if len(segs) > 1 {
		group := segs[0]
		if _, ok := nestedGroups[group]; !ok {
			return nil, &ValidationError{Msg: "unknown field group: " + group}
		}
		if group == "socials" && !domain.IsSocialPlatform(segs[1]) {
			return nil, &ValidationError{Msg: "unknown social platform: " + segs[1]}
		}
	}

	patch := buildPatch(segs, value, groupView(current))
	if len(patch) == 0 {
		return nil, &ValidationError{Msg: "no values to update"}
	}
	return patch, nil
}

// buildPatch recurses over path segments. At each intermediate level the
// current values are copied first, then the deeper assignment is folded in.
func buildPatch(segs []string, value any, current map[string]any) map[string]any {
	if len(segs) == 1 {
		return map[string]any{segs[0]: value}
	}
	head := segs[0]
	childCurrent, _ := current[head].(map[string]any)
	child := buildPatch(segs[1:], value, childCurrent)

	merged := make(map[string]any, len(childCurrent)+len(child))
	for k, v := range childCurrent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return map[string]any{head: merged}
}

// groupView exposes the profile's nested groups as generic maps for merging.
func groupView(p *domain.Profile) map[string]any {
	view := make(map[string]any, len(nestedGroups))
	for name, get := range nestedGroups {
		inner := make(map[string]any)
		for k, v := range get(p) {
			inner[k] = v
		}
		view[name] = inner
	}
	return view
}

func splitField(field string) []string {
	var segs []string
	for _, s := range strings.Split(field, ".") {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// mergeProfile folds a confirmed patch into the cached profile using the same
// rule Resolve used to build it, so local and remote views never diverge
// after a successful write. Unknown keys are reported, never merged.
func mergeProfile(p *domain.Profile, patch map[string]any) []string {
	var unknown []string
	for field, value := range patch {
		if _, ok := nestedGroups[field]; ok {
			m, ok := toStringMap(value)
			if !ok {
				unknown = append(unknown, field)
				continue
			}
			if field == "socials" {
				if bad := firstUnknownPlatform(m); bad != "" {
					unknown = append(unknown, field+"."+bad)
					continue
				}
				p.Socials = m
			} else {
				p.OperatingHours = m
			}
			continue
		}
		if !setScalar(p, field, value) {
			unknown = append(unknown, field)
		}
	}
	return unknown
}

func toStringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, raw := range m {
			s, ok := raw.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func firstUnknownPlatform(m map[string]string) string {
	for k := range m {
		if !domain.IsSocialPlatform(k) {
			return k
		}
	}
	return ""
}

func setScalar(p *domain.Profile, field string, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	switch field {
	case "name":
		p.Name = s
	case "slug":
		p.Slug = s
	case "description":
		p.Description = s
	case "email":
		p.Email = s
	case "phone":
		p.Phone = s
	case "address":
		p.Address = s
	case "city":
		p.City = s
	case "state":
		p.State = s
	case "country":
		p.Country = s
	case "gstin":
		p.GSTIN = s
	case "type":
		p.Type = s
	case "additional_services":
		p.AdditionalServices = s
	case "avatar":
		p.Avatar = s
	case "banner":
		p.Banner = s
	default:
		return false
	}
	return true
}
