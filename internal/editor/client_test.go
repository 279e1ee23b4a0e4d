package editor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdir/internal/domain"
)

func TestClientFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/business/demo-bakery", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Business fetched successfully",
			"data": map[string]any{
				"profile": map[string]any{"id": "p-1", "slug": "demo-bakery", "name": "Demo Bakery"},
				"media":   []map[string]any{{"id": "m-1", "url": "media/one.jpg", "type": "image"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	data, err := c.FetchProfile(context.Background(), "demo-bakery")
	require.NoError(t, err)
	assert.Equal(t, "p-1", data.Profile.ID)
	assert.Equal(t, "Demo Bakery", data.Profile.Name)
	require.Len(t, data.Media, 1)
	assert.Equal(t, "m-1", data.Media[0].ID)
}

func TestClientPatchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/business/p-1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"email": "a@b.test"}, body)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Business updated successfully",
			"data":    body,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	confirmed, err := c.PatchProfile(context.Background(), "p-1", map[string]any{"email": "a@b.test"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.test"}, confirmed)
}

func TestClientRemoteErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Business update failed",
			"error":   "unknown social platform: myspace",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	_, err := c.PatchProfile(context.Background(), "p-1", map[string]any{"socials": "x"})
	var rerr *RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadRequest, rerr.Status)
	assert.Equal(t, "unknown social platform: myspace", rerr.Message)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "")
	_, err := c.FetchProfile(context.Background(), "demo-bakery")
	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
}

func TestClientRequestUploadCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/assets/url", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "image/jpeg", body["type"])
		assert.Equal(t, "avatar", body["category"])
		// Credential responses are raw, not enveloped.
		json.NewEncoder(w).Encode(map[string]string{
			"presignedUrl": "http://store.test/upload/avatar/x.jpg?sig=s",
			"assetpath":    "avatar/x.jpg",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	cred, err := c.RequestUploadCredential(context.Background(), "image/jpeg", "avatar")
	require.NoError(t, err)
	assert.Equal(t, "http://store.test/upload/avatar/x.jpg?sig=s", cred.PresignedURL)
	assert.Equal(t, "avatar/x.jpg", cred.AssetPath)
}

func TestClientUploadBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"), "presigned uploads carry no bearer token")
		blob, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("jpeg-bytes"), blob)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	err := c.UploadBytes(context.Background(), srv.URL+"/upload/x", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)
}

func TestClientCheckSlugAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/business/slug/check", r.URL.Path)
		taken := r.URL.Query().Get("value") == "demo-bakery"
		msg := "This slug is available for use. You can proceed."
		if taken {
			msg = "This slug is already in use. Try another one."
		}
		json.NewEncoder(w).Encode(map[string]any{"message": msg, "data": !taken})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	available, err := c.CheckSlugAvailability(context.Background(), "demo-bakery")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = c.CheckSlugAvailability(context.Background(), "fresh-slug")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestClientRegisterAndDeleteMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "/api/v1/business/p-1/media", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "media/new.jpg", body["assetpath"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "Media added successfully",
				"data":    map[string]string{"id": "m-9", "url": "media/new.jpg", "type": "image"},
			})
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/api/v1/business/p-1/media/m-9", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"message": "Media deleted successfully"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn")
	item, err := c.RegisterMedia(context.Background(), "p-1", "media/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "m-9", item.ID)
	assert.Equal(t, "image", item.Type)

	require.NoError(t, c.DeleteMedia(context.Background(), "p-1", "m-9"))
}

var _ API = (*Client)(nil)
var _ API = (*fakeAPI)(nil)

func TestDomainTypesRoundTripEnvelope(t *testing.T) {
	// The credential uses the store's exact JSON keys.
	raw, err := json.Marshal(domain.UploadCredential{PresignedURL: "u", AssetPath: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"presignedUrl":"u","assetpath":"p"}`, string(raw))
}
