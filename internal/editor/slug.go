package editor

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

type SlugStatus int

const (
	SlugUnknown SlugStatus = iota // no check yet / candidate too short
	SlugChecking
	SlugAvailable
	SlugTaken
	SlugCheckFailed
)

const (
	msgSlugTooShort   = "Slug must be at least 3 characters long"
	msgSlugTooLong    = "Slug must be at most 60 characters long"
	msgSlugTaken      = "This slug is already taken"
	msgSlugCheckError = "Error checking slug availability"
)

// slugCheckDelay is how long input must stay quiet before a remote check.
const slugCheckDelay = 500 * time.Millisecond

var (
	reSlugInvalid  = regexp.MustCompile(`[^a-z0-9-]`)
	reSlugCollapse = regexp.MustCompile(`-+`)
)

// SanitizeSlug lowercases, replaces anything outside [a-z0-9-] with a hyphen,
// collapses runs of hyphens, and strips them from the ends. Idempotent.
func SanitizeSlug(s string) string {
	s = strings.ToLower(s)
	s = reSlugInvalid.ReplaceAllString(s, "-")
	s = reSlugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type SlugResult struct {
	Slug    string
	Status  SlugStatus
	Message string // user-facing; empty unless something needs saying
}

type slugChecker interface {
	CheckSlugAvailability(ctx context.Context, slug string) (bool, error)
}

// SlugValidator sanitizes candidate slugs, debounces remote availability
// checks, and only ever surfaces the result of the latest scheduled check:
// stale in-flight responses for superseded input are discarded.
type SlugValidator struct {
	checker  slugChecker
	debounce *Debouncer
	onChange func(SlugResult)

	mu     sync.Mutex
	gen    uint64
	result SlugResult
}

type SlugOption func(*SlugValidator)

// WithSlugDebouncer swaps the timer backend; tests use it for virtual time.
func WithSlugDebouncer(d *Debouncer) SlugOption {
	return func(v *SlugValidator) { v.debounce = d }
}

// WithSlugListener registers a callback for every visible state change.
func WithSlugListener(f func(SlugResult)) SlugOption {
	return func(v *SlugValidator) { v.onChange = f }
}

func NewSlugValidator(checker slugChecker, opts ...SlugOption) *SlugValidator {
	v := &SlugValidator{
		checker:  checker,
		debounce: NewDebouncer(slugCheckDelay),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Input runs on every keystroke: sanitize first, gate on length locally, and
// only then schedule a debounced remote check. Returns the sanitized slug so
// callers can echo it back into the field.
func (v *SlugValidator) Input(ctx context.Context, raw string) string {
	slug := SanitizeSlug(raw)

	v.mu.Lock()
	v.gen++
	gen := v.gen

	if len(slug) < 3 {
		v.debounce.Cancel()
		v.setLocked(SlugResult{Slug: slug, Status: SlugUnknown, Message: msgSlugTooShort})
		v.mu.Unlock()
		return slug
	}
	if len(slug) > 60 {
		v.debounce.Cancel()
		v.setLocked(SlugResult{Slug: slug, Status: SlugUnknown, Message: msgSlugTooLong})
		v.mu.Unlock()
		return slug
	}

	v.setLocked(SlugResult{Slug: slug, Status: SlugUnknown})
	v.mu.Unlock()

	v.debounce.Schedule(func() { v.check(ctx, gen, slug) })
	return slug
}

func (v *SlugValidator) check(ctx context.Context, gen uint64, slug string) {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return
	}
	v.setLocked(SlugResult{Slug: slug, Status: SlugChecking})
	v.mu.Unlock()

	available, err := v.checker.CheckSlugAvailability(ctx, slug)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		// Input changed while this check was in flight; its result must not
		// race into visible state.
		return
	}
	switch {
	case err != nil:
		v.setLocked(SlugResult{Slug: slug, Status: SlugCheckFailed, Message: msgSlugCheckError})
	case available:
		v.setLocked(SlugResult{Slug: slug, Status: SlugAvailable})
	default:
		v.setLocked(SlugResult{Slug: slug, Status: SlugTaken, Message: msgSlugTaken})
	}
}

func (v *SlugValidator) setLocked(r SlugResult) {
	v.result = r
	if v.onChange != nil {
		v.onChange(r)
	}
}

func (v *SlugValidator) Result() SlugResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}
