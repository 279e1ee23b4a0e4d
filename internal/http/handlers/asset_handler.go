package handlers

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"bizdir/internal/log"
	"bizdir/internal/services"
	"bizdir/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AssetHandler struct {
	Assets *services.AssetService
}

// GetUploadURL issues a presigned PUT credential for one object.
func (h *AssetHandler) GetUploadURL(c *fiber.Ctx) error {
	var body struct {
		Type     string `json:"type"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	contentType, ok := validate.ContentType(body.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported content type"})
	}
	category, ok := validate.AssetCategory(body.Category)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported category"})
	}

	cred, err := h.Assets.IssueCredential(contentType, category)
	if err != nil {
		log.Error(c, "asset.presign.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	log.Info(c, "asset.presigned", map[string]any{"assetpath": cred.AssetPath})
	return c.JSON(cred)
}

// Upload is the presigned PUT target. The signature covers path, content
// type, and expiry; each credential is good for exactly one write.
func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	assetPath := cleanAssetPath(c, c.Params("*"))
	if assetPath == "" {
		return c.SendStatus(fiber.StatusNotFound)
	}

	err := h.Assets.Receive(
		c.Context(),
		assetPath,
		c.Get(fiber.HeaderContentType),
		c.Query("exp"),
		c.Query("sig"),
		bytes.NewReader(c.Body()),
	)
	if errors.Is(err, services.ErrBadSignature) || errors.Is(err, services.ErrCredentialUsed) {
		log.Security(c, "asset.upload.denied", map[string]any{"assetpath": assetPath})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		log.Error(c, "asset.upload.error", err, map[string]any{"assetpath": assetPath})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
	}

	log.Audit(c, "asset.uploaded", map[string]any{"assetpath": assetPath})
	return c.SendStatus(fiber.StatusOK)
}

// Serve streams a stored blob. This is the asset base clients prefix asset
// paths with when rendering.
func (h *AssetHandler) Serve(c *fiber.Ctx) error {
	assetPath := cleanAssetPath(c, c.Params("*"))
	if assetPath == "" {
		return c.SendStatus(fiber.StatusNotFound)
	}

	rc, mimeType, err := h.Assets.Open(c.Context(), assetPath)
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, mimeType)
	return c.SendStream(rc)
}

// cleanAssetPath blocks encoded traversal attempts as well as raw .. or null
// bytes before the path ever reaches the store.
func cleanAssetPath(c *fiber.Ctx, path string) string {
	rawLower := strings.ToLower(path)
	if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
		log.Security(c, "asset.traversal.block", map[string]any{"path": path})
		return ""
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		log.Security(c, "asset.traversal.block", map[string]any{"path": path})
		return ""
	}
	return clean
}
