package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"
)

// ErrUploadInFlight is returned when a field already has a pending upload.
// The earlier upload keeps going; the caller must cancel or finish it first.
var ErrUploadInFlight = errors.New("an upload for this image is already in progress")

// ImageField names the two single-image profile slots. The field name doubles
// as the asset category and as the profile key patched on completion.
type ImageField string

const (
	FieldAvatar ImageField = "avatar"
	FieldBanner ImageField = "banner"
)

type UploadState int

const (
	StateIdle UploadState = iota
	StateCropping
	StateRequestingCredential
	StateUploading
	StateRegistering
	StateDone
)

// CropRect is a crop window in source pixel coordinates.
type CropRect struct {
	X, Y, W, H int
}

// UploadOrchestrator drives the select, crop, credential, upload, patch
// sequence for avatar and banner images. At most one upload per field may be
// pending at a time.
type UploadOrchestrator struct {
	session *Session

	mu     sync.Mutex
	active map[ImageField]*PendingUpload
}

func NewUploadOrchestrator(session *Session) *UploadOrchestrator {
	return &UploadOrchestrator{
		session: session,
		active:  make(map[ImageField]*PendingUpload),
	}
}

// PendingUpload is a selected image waiting to be cropped and confirmed. The
// decoded source stays in memory; a JPEG preview lives in a temp file until
// the upload finishes or is cancelled.
type PendingUpload struct {
	orch  *UploadOrchestrator
	field ImageField
	src   image.Image

	mu          sync.Mutex
	state       UploadState
	previewPath string
}

// Select decodes a newly chosen image and opens a pending upload for the
// field. Returns ErrUploadInFlight if the field already has one.
func (o *UploadOrchestrator) Select(field ImageField, r io.Reader) (*PendingUpload, error) {
	if field != FieldAvatar && field != FieldBanner {
		return nil, &ValidationError{Msg: "unknown image field: " + string(field)}
	}

	o.mu.Lock()
	if _, busy := o.active[field]; busy {
		o.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	// Reserve the slot before decoding so a racing Select fails fast.
	o.active[field] = nil
	o.mu.Unlock()

	src, _, err := image.Decode(r)
	if err != nil {
		o.release(field)
		return nil, &ValidationError{Msg: "could not decode image: " + err.Error()}
	}

	preview, err := writePreview(src)
	if err != nil {
		o.release(field)
		return nil, err
	}

	p := &PendingUpload{
		orch:        o,
		field:       field,
		src:         src,
		state:       StateCropping,
		previewPath: preview,
	}
	o.mu.Lock()
	o.active[field] = p
	o.mu.Unlock()
	return p, nil
}

// Pending reports whether the field has an upload in progress.
func (o *UploadOrchestrator) Pending(field ImageField) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, busy := o.active[field]
	return busy
}

func (o *UploadOrchestrator) release(field ImageField) {
	o.mu.Lock()
	delete(o.active, field)
	o.mu.Unlock()
}

func (p *PendingUpload) State() UploadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PreviewPath is the temp file holding the selected image, valid until the
// upload finishes or is cancelled.
func (p *PendingUpload) PreviewPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previewPath
}

// Confirm crops the source to rect and runs the remote sequence: request an
// upload credential for the field's category, push the cropped bytes to the
// presigned URL, then patch the profile field with the stored asset path.
// Returns the asset path the profile now references.
func (p *PendingUpload) Confirm(ctx context.Context, rect CropRect) (string, error) {
	p.mu.Lock()
	if p.state != StateCropping {
		p.mu.Unlock()
		return "", &ValidationError{Msg: "upload is not awaiting a crop"}
	}
	p.mu.Unlock()

	if err := checkCrop(p.field, rect, p.src.Bounds()); err != nil {
		return "", err
	}
	blob, err := cropJPEG(p.src, rect)
	if err != nil {
		return "", err
	}

	p.setState(StateRequestingCredential)
	cred, err := p.orch.session.api.RequestUploadCredential(ctx, "image/jpeg", string(p.field))
	if err != nil {
		p.setState(StateCropping)
		return "", err
	}

	p.setState(StateUploading)
	if err := p.orch.session.api.UploadBytes(ctx, cred.PresignedURL, "image/jpeg", blob); err != nil {
		p.setState(StateCropping)
		return "", err
	}

	p.setState(StateRegistering)
	if err := p.orch.session.SaveField(ctx, string(p.field), cred.AssetPath); err != nil {
		p.setState(StateCropping)
		return "", err
	}

	p.finish(StateDone)
	return cred.AssetPath, nil
}

// Cancel abandons the pending upload and releases its preview. Nothing was
// sent to the store.
func (p *PendingUpload) Cancel() {
	p.finish(StateIdle)
}

func (p *PendingUpload) setState(s UploadState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *PendingUpload) finish(s UploadState) {
	p.mu.Lock()
	if p.previewPath != "" {
		os.Remove(p.previewPath)
		p.previewPath = ""
	}
	p.state = s
	p.mu.Unlock()
	p.orch.release(p.field)
}

// checkCrop enforces the per-field aspect ratio (1:1 for avatars, 16:9 for
// banners) and that the window lies inside the source image.
func checkCrop(field ImageField, rect CropRect, bounds image.Rectangle) error {
	if rect.W <= 0 || rect.H <= 0 {
		return &ValidationError{Msg: "crop window is empty"}
	}
	switch field {
	case FieldAvatar:
		if rect.W != rect.H {
			return &ValidationError{Msg: "avatar crop must be square"}
		}
	case FieldBanner:
		if rect.W*9 != rect.H*16 {
			return &ValidationError{Msg: "banner crop must be 16:9"}
		}
	}
	win := image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H)
	if !win.In(bounds) {
		return &ValidationError{Msg: "crop window is outside the image"}
	}
	return nil
}

func cropJPEG(src image.Image, rect CropRect) ([]byte, error) {
	out := image.NewRGBA(image.Rect(0, 0, rect.W, rect.H))
	draw.Draw(out, out.Bounds(), src, image.Pt(rect.X, rect.Y), draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

func writePreview(src image.Image) (string, error) {
	f, err := os.CreateTemp("", "upload-preview-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, src, &jpeg.Options{Quality: 80}); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write preview: %w", err)
	}
	return f.Name(), nil
}
