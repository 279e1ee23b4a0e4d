package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdir/internal/assets"
	"bizdir/internal/config"
	"bizdir/internal/repos"
	"bizdir/internal/services"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := assets.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assetSvc := services.NewAssetService(store, "http://api.test", "asset-secret", 5*time.Minute)

	cfg := config.Config{JWTSecret: "test-secret"}
	deps := NewDeps(db, cfg, assetSvc)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", deps.AuthHandler.Login)

	biz := api.Group("/business")
	biz.Post("/", deps.BusinessHandler.Create)
	biz.Get("/renewal", deps.BusinessHandler.Renewal)
	biz.Get("/count", deps.BusinessHandler.Count)
	biz.Get("/slug/check", deps.BusinessHandler.CheckSlug)
	biz.Get("/", deps.BusinessHandler.List)
	biz.Get("/:slug", deps.BusinessHandler.GetBySlug)
	biz.Patch("/:id", RequireToken(deps.Auth), deps.BusinessHandler.Patch)
	biz.Post("/:id/media", RequireToken(deps.Auth), deps.BusinessHandler.RegisterMedia)
	biz.Delete("/:id/media/:mediaId", RequireToken(deps.Auth), deps.BusinessHandler.DeleteMedia)

	api.Post("/assets/url", RequireToken(deps.Auth), deps.AssetHandler.GetUploadURL)
	api.Put("/assets/upload/*", deps.AssetHandler.Upload)
	app.Get("/assets/*", deps.AssetHandler.Serve)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"phone": "9000000001", "password": "Passw0rd!"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := testApp(t)
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"phone": "9000000001", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckSlugMessages(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/business/slug/check?value=demo-bakery", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "This slug is already in use. Try another one.", body["message"])
	assert.Equal(t, false, body["data"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/business/slug/check?value=fresh-slug", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "This slug is available for use. You can proceed.", body["message"])
	assert.Equal(t, true, body["data"])
}

func TestGetBySlug(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/business/demo-bakery", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	profile := data["profile"].(map[string]any)
	assert.Equal(t, "p-demo", profile["id"])
	assert.Equal(t, "Demo Bakery", profile["name"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/business/no-such-biz", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Business does not exist or is expired", body["message"])
}

func TestPatchRequiresToken(t *testing.T) {
	app := testApp(t)

	resp, _ := doJSON(t, app, http.MethodPatch, "/api/v1/business/p-demo", "",
		map[string]any{"email": "x@y.test"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPatchHappyPathAndRejection(t *testing.T) {
	app := testApp(t)
	token := login(t, app)

	resp, body := doJSON(t, app, http.MethodPatch, "/api/v1/business/p-demo", token,
		map[string]any{"email": "patched@demo.test"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Business updated successfully", body["message"])
	confirmed := body["data"].(map[string]any)
	assert.Equal(t, "patched@demo.test", confirmed["email"])

	// Key-wise merge: the sibling social key must come back in the confirmed map.
	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/business/p-demo", token,
		map[string]any{"socials": map[string]any{"github": "https://github.com/demo"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	socials := body["data"].(map[string]any)["socials"].(map[string]any)
	assert.Equal(t, "https://github.com/demo", socials["github"])
	assert.Equal(t, "https://demo-bakery.test", socials["website"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/business/p-demo", token,
		map[string]any{"socials": map[string]any{"myspace": "https://myspace.com/x"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Business update failed", body["message"])
	assert.Contains(t, body["error"], "unknown social platform")

	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/business/p-demo", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "no values to update")
}

func TestListMeta(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/business/?page=1&limit=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	profiles := data["profiles"].([]any)
	assert.Len(t, profiles, 1)

	meta := data["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total_count"])
	assert.Equal(t, float64(1), meta["total_pages"])
	assert.Nil(t, meta["previous"])
	assert.NotNil(t, meta["next"], "a full page advertises a next link")

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/business/?category_id=cat-missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No businesses found", body["message"])
}

func TestCount(t *testing.T) {
	app := testApp(t)
	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/business/count", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["data"])
}

func TestCreateBusinessValidation(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/business/", "", map[string]any{
		"user":    map[string]string{"name": "O", "phone": "9000000011"},
		"profile": map[string]any{"name": "Bad Slug Biz", "slug": "Bad Slug!"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid slug", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/business/", "", map[string]any{
		"user":    map[string]string{"name": "O", "phone": "9000000011"},
		"profile": map[string]any{"name": "Good Biz", "slug": "good-biz"},
		"payment": map[string]any{"amount": 999, "payment_status": "success"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Business created successfully", body["message"])
}

func TestUploadRoundTripThroughHandlers(t *testing.T) {
	app := testApp(t)
	token := login(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/assets/url", token,
		map[string]string{"type": "image/jpeg", "category": "media"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	presigned, _ := body["presignedUrl"].(string)
	assetPath, _ := body["assetpath"].(string)
	require.NotEmpty(t, presigned)
	require.NotEmpty(t, assetPath)

	// The presigned URL points at this API's own upload route.
	uploadPath := strings.TrimPrefix(presigned, "http://api.test")
	req := httptest.NewRequest(http.MethodPut, uploadPath, strings.NewReader("jpeg-bytes"))
	req.Header.Set("Content-Type", "image/jpeg")
	putResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	// The credential is single use.
	req = httptest.NewRequest(http.MethodPut, uploadPath, strings.NewReader("again"))
	req.Header.Set("Content-Type", "image/jpeg")
	putResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, putResp.StatusCode)

	// Register the uploaded asset as gallery media.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/business/p-demo/media", token,
		map[string]string{"assetpath": assetPath})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := body["data"].(map[string]any)
	mediaID, _ := item["id"].(string)
	require.NotEmpty(t, mediaID)
	assert.Equal(t, assetPath, item["url"])

	// Serve the stored bytes back.
	getReq := httptest.NewRequest(http.MethodGet, "/assets/"+assetPath, nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	blob, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(blob))

	// Delete the gallery item.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/business/p-demo/media/"+mediaID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/business/p-demo/media/"+mediaID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssetServeBlocksTraversal(t *testing.T) {
	app := testApp(t)

	for _, path := range []string{
		"/assets/../etc/passwd",
		"/assets/..%2fetc%2fpasswd",
		"/assets/media/%2e%2e/secret",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, http.StatusOK, resp.StatusCode, "path %q must not be served", path)
	}
}
