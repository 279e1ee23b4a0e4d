package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bizdir/internal/domain"
)

// API is the collaborator surface the edit session consumes. Client is the
// HTTP implementation; tests substitute stubs.
type API interface {
	FetchProfile(ctx context.Context, slug string) (*domain.BusinessData, error)
	PatchProfile(ctx context.Context, id string, patch map[string]any) (map[string]any, error)
	RequestUploadCredential(ctx context.Context, contentType, category string) (*domain.UploadCredential, error)
	UploadBytes(ctx context.Context, presignedURL, contentType string, blob []byte) error
	RegisterMedia(ctx context.Context, businessID, assetPath string) (*domain.MediaItem, error)
	DeleteMedia(ctx context.Context, businessID, mediaID string) error
	CheckSlugAvailability(ctx context.Context, slug string) (bool, error)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the server's {message, data} response shape.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do issues a request and decodes the response envelope. Transport failures
// become NetworkError; non-2xx responses become RemoteError carrying the
// server's message.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if env.Error != "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &RemoteError{Status: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

func (c *Client) FetchProfile(ctx context.Context, slug string) (*domain.BusinessData, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/business/"+url.PathEscape(slug), nil)
	if err != nil {
		return nil, err
	}
	var data domain.BusinessData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode business data: %w", err)
	}
	return &data, nil
}

func (c *Client) PatchProfile(ctx context.Context, id string, patch map[string]any) (map[string]any, error) {
	env, err := c.do(ctx, http.MethodPatch, "/api/v1/business/"+url.PathEscape(id), patch)
	if err != nil {
		return nil, err
	}
	var confirmed map[string]any
	if err := json.Unmarshal(env.Data, &confirmed); err != nil {
		return nil, fmt.Errorf("decode confirmed patch: %w", err)
	}
	return confirmed, nil
}

func (c *Client) RequestUploadCredential(ctx context.Context, contentType, category string) (*domain.UploadCredential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/assets/url",
		bytes.NewReader(mustJSON(map[string]string{"type": contentType, "category": category})))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteFromBody(resp)
	}
	var cred domain.UploadCredential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	if cred.PresignedURL == "" {
		return nil, &RemoteError{Status: resp.StatusCode, Message: "missing presigned URL"}
	}
	return &cred, nil
}

// UploadBytes writes a blob to a presigned endpoint. The URL is absolute and
// already carries its authorization; no token header is attached.
func (c *Client) UploadBytes(ctx context.Context, presignedURL, contentType string, blob []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteFromBody(resp)
	}
	return nil
}

func (c *Client) RegisterMedia(ctx context.Context, businessID, assetPath string) (*domain.MediaItem, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/v1/business/"+url.PathEscape(businessID)+"/media",
		map[string]string{"assetpath": assetPath})
	if err != nil {
		return nil, err
	}
	var item domain.MediaItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return nil, fmt.Errorf("decode media item: %w", err)
	}
	return &item, nil
}

func (c *Client) DeleteMedia(ctx context.Context, businessID, mediaID string) error {
	_, err := c.do(ctx, http.MethodDelete,
		"/api/v1/business/"+url.PathEscape(businessID)+"/media/"+url.PathEscape(mediaID), nil)
	return err
}

func (c *Client) CheckSlugAvailability(ctx context.Context, slug string) (bool, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/business/slug/check?value="+url.QueryEscape(slug), nil)
	if err != nil {
		return false, err
	}
	var available bool
	if err := json.Unmarshal(env.Data, &available); err != nil {
		return false, fmt.Errorf("decode slug check: %w", err)
	}
	return available, nil
}

func remoteFromBody(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}

func mustJSON(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}
