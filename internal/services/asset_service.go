package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"bizdir/internal/assets"
	"bizdir/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBadSignature   = errors.New("invalid or expired upload credential")
	ErrCredentialUsed = errors.New("upload credential already used")
)

// AssetService issues presigned upload URLs and verifies them on PUT.
// Credentials are HMAC-signed over (asset path, content type, expiry) and are
// single-use: a path can be written exactly once.
type AssetService struct {
	store  assets.Store
	base   string // public base URL the presigned URL points at
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu   sync.Mutex
	used map[string]bool
}

func NewAssetService(store assets.Store, base, secret string, ttl time.Duration) *AssetService {
	return &AssetService{
		store:  store,
		base:   strings.TrimRight(base, "/"),
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		used:   make(map[string]bool),
	}
}

// IssueCredential mints a presigned PUT URL for one object of the given
// content type under the given category (avatar|banner|media|license).
func (s *AssetService) IssueCredential(contentType, category string) (*domain.UploadCredential, error) {
	ext, ok := contentTypeExt(contentType)
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	assetPath := fmt.Sprintf("%s/%s%s", category, uuid.NewString(), ext)
	exp := s.now().Add(s.ttl).Unix()
	sig := s.sign(assetPath, contentType, exp)

	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", sig)
	presigned := fmt.Sprintf("%s/api/v1/assets/upload/%s?%s", s.base, assetPath, q.Encode())

	return &domain.UploadCredential{PresignedURL: presigned, AssetPath: assetPath}, nil
}

// Receive validates a presigned PUT and stores the blob. The credential is
// consumed whether or not the write succeeds.
func (s *AssetService) Receive(ctx context.Context, assetPath, contentType, expStr, sig string, body io.Reader) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if s.now().Unix() > exp {
		return ErrBadSignature
	}
	want := s.sign(assetPath, contentType, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}

	s.mu.Lock()
	if s.used[assetPath] {
		s.mu.Unlock()
		return ErrCredentialUsed
	}
	s.used[assetPath] = true
	s.mu.Unlock()

	if err := s.store.Save(ctx, assetPath, body); err != nil {
		return fmt.Errorf("store asset: %w", err)
	}
	return nil
}

func (s *AssetService) Open(ctx context.Context, assetPath string) (io.ReadCloser, string, error) {
	return s.store.Open(ctx, assetPath)
}

func (s *AssetService) Delete(ctx context.Context, assetPath string) error {
	return s.store.Delete(ctx, assetPath)
}

func (s *AssetService) sign(assetPath, contentType string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", assetPath, contentType, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func contentTypeExt(ct string) (string, bool) {
	switch ct {
	case "image/jpeg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/webp":
		return ".webp", true
	case "video/mp4":
		return ".mp4", true
	}
	return "", false
}
