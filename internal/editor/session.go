package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"bizdir/internal/domain"
)

// Notifier receives the outcome of each save so a UI can surface toasts and
// per-field error text. The zero notifier drops everything.
type Notifier interface {
	Success(field, msg string)
	Error(field, msg string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string, string) {}
func (noopNotifier) Error(string, string)   {}

// Session holds the loaded business and pushes field-level edits to the
// store. The cached copy only advances when the store confirms a write, so a
// failed save leaves the local view exactly where it was.
type Session struct {
	api    API
	log    *slog.Logger
	notify Notifier

	mu   sync.Mutex
	data *domain.BusinessData
}

type SessionOption func(*Session)

func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notify = n }
}

func NewSession(api API, opts ...SessionOption) *Session {
	s := &Session{
		api:    api,
		log:    slog.Default(),
		notify: noopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the business by slug and makes it the session's working copy.
func (s *Session) Load(ctx context.Context, slug string) error {
	data, err := s.api.FetchProfile(ctx, slug)
	if err != nil {
		s.log.Error("load business", "slug", slug, "err", err)
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	s.log.Info("business loaded", "slug", slug, "id", data.Profile.ID)
	return nil
}

// Replace swaps the working copy wholesale. Used after out-of-band refreshes.
func (s *Session) Replace(data *domain.BusinessData) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Data returns a snapshot of the working copy. Nested maps and slices are
// copied so callers cannot mutate session state behind the lock.
func (s *Session) Data() *domain.BusinessData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneData(s.data)
}

// SaveField resolves a single field edit into a partial update, sends it, and
// folds the confirmed result back into the cache. field may be dotted
// ("socials.facebook"); sibling keys in the same group are preserved.
func (s *Session) SaveField(ctx context.Context, field string, value any) error {
	s.mu.Lock()
	if s.data == nil || s.data.Profile.ID == "" {
		s.mu.Unlock()
		err := &ValidationError{Msg: "no business loaded"}
		s.notify.Error(field, err.Msg)
		return err
	}
	current := s.data.Profile
	s.mu.Unlock()

	patch, err := Resolve(field, value, &current)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.notify.Error(field, verr.Msg)
		}
		return err
	}

	confirmed, err := s.api.PatchProfile(ctx, current.ID, patch)
	if err != nil {
		s.log.Error("save field", "field", field, "err", err)
		s.notify.Error(field, saveErrorMessage(err))
		return err
	}

	s.mu.Lock()
	if unknown := mergeProfile(&s.data.Profile, confirmed); len(unknown) > 0 {
		s.log.Warn("unmergeable keys in confirmed update", "keys", unknown)
	}
	s.mu.Unlock()

	s.log.Info("field saved", "field", field, "id", current.ID)
	s.notify.Success(field, "Business updated successfully")
	return nil
}

// UploadGalleryImage pushes an already-encoded image through the credential
// and upload steps, registers it against the business, and refreshes the
// working copy so the gallery reflects the store's ordering and ids.
func (s *Session) UploadGalleryImage(ctx context.Context, contentType string, blob []byte) (*domain.MediaItem, error) {
	s.mu.Lock()
	if s.data == nil || s.data.Profile.ID == "" {
		s.mu.Unlock()
		return nil, &ValidationError{Msg: "no business loaded"}
	}
	businessID := s.data.Profile.ID
	s.mu.Unlock()

	cred, err := s.api.RequestUploadCredential(ctx, contentType, "media")
	if err != nil {
		return nil, err
	}
	if err := s.api.UploadBytes(ctx, cred.PresignedURL, contentType, blob); err != nil {
		return nil, err
	}
	item, err := s.api.RegisterMedia(ctx, businessID, cred.AssetPath)
	if err != nil {
		return nil, err
	}

	s.refetch(ctx)
	s.log.Info("gallery image uploaded", "id", businessID, "asset", cred.AssetPath)
	return item, nil
}

// DeleteMedia removes one gallery item. The working copy is refetched whether
// or not the delete succeeded, so the gallery always converges on what the
// store actually holds.
func (s *Session) DeleteMedia(ctx context.Context, mediaID string) error {
	s.mu.Lock()
	if s.data == nil || s.data.Profile.ID == "" {
		s.mu.Unlock()
		return &ValidationError{Msg: "no business loaded"}
	}
	businessID := s.data.Profile.ID
	s.mu.Unlock()

	defer s.refetch(ctx)

	if err := s.api.DeleteMedia(ctx, businessID, mediaID); err != nil {
		s.log.Error("delete media", "media", mediaID, "err", err)
		return err
	}
	s.log.Info("media deleted", "id", businessID, "media", mediaID)
	return nil
}

// refetch reloads the working copy by its cached slug. Failures are logged
// and the existing copy is kept.
func (s *Session) refetch(ctx context.Context) {
	s.mu.Lock()
	if s.data == nil {
		s.mu.Unlock()
		return
	}
	slug := s.data.Profile.Slug
	s.mu.Unlock()

	data, err := s.api.FetchProfile(ctx, slug)
	if err != nil {
		s.log.Warn("refetch business", "slug", slug, "err", err)
		return
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func saveErrorMessage(err error) string {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr.Message
	}
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		return "could not reach the server"
	}
	return err.Error()
}

func cloneData(d *domain.BusinessData) *domain.BusinessData {
	if d == nil {
		return nil
	}
	out := *d
	out.Profile.Socials = copyMap(d.Profile.Socials)
	out.Profile.OperatingHours = copyMap(d.Profile.OperatingHours)
	out.Media = append([]domain.MediaItem(nil), d.Media...)
	out.Licenses = append([]domain.License(nil), d.Licenses...)
	out.Tags = append([]string(nil), d.Tags...)
	return &out
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
