package handlers

import (
	"errors"
	"fmt"
	"strings"

	"bizdir/internal/log"
	"bizdir/internal/services"
	"bizdir/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type BusinessHandler struct {
	Profiles *services.ProfileService
	Media    *services.MediaService
}

type pageMeta struct {
	Params     fiber.Map `json:"params"`
	TotalCount int       `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	Previous   *string   `json:"previous"`
	Next       *string   `json:"next"`
}

// meta builds pagination metadata: total_pages = ceil(count/limit), previous
// present past page one, next present when the page came back full.
func meta(params fiber.Map, count, page, limit, returned int) pageMeta {
	m := pageMeta{Params: params, TotalCount: count, TotalPages: (count + limit - 1) / limit}
	if page > 1 {
		prev := fmt.Sprintf("/api/v1/business?page=%d&limit=%d", page-1, limit)
		m.Previous = &prev
	}
	if returned == limit {
		next := fmt.Sprintf("/api/v1/business?page=%d&limit=%d", page+1, limit)
		m.Next = &next
	}
	return m
}

func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var req services.CreateBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business creation failed", "error": err.Error()})
	}
	if req.Profile.Name == "" || req.User.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business creation failed"})
	}
	if _, ok := validate.Slug(req.Profile.Slug); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business creation failed", "error": "invalid slug"})
	}

	result, err := h.Profiles.CreateBusiness(req)
	if err != nil {
		log.Error(c, "business.create.error", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business creation failed"})
	}

	log.Audit(c, "business.created", map[string]any{"id": result.Profile.ID, "slug": result.Profile.Slug})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Business created successfully",
		"data":    result,
	})
}

func (h *BusinessHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	data, err := h.Profiles.GetBySlug(slug)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Business does not exist or is expired"})
	}
	if err != nil {
		log.Error(c, "business.get.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Business fetched successfully", "data": data})
}

func (h *BusinessHandler) CheckSlug(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Query("value"))
	available, err := h.Profiles.CheckSlug(slug)
	if err != nil {
		log.Error(c, "business.slugcheck.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	if !available {
		return c.JSON(fiber.Map{"message": "This slug is already in use. Try another one.", "data": false})
	}
	return c.JSON(fiber.Map{"message": "This slug is available for use. You can proceed.", "data": true})
}

func (h *BusinessHandler) List(c *fiber.Ctx) error {
	categoryID := strings.TrimSpace(c.Query("category_id"))
	page := validate.Page(c.Query("page"), 1)
	limit := validate.Page(c.Query("limit"), 10)
	search := strings.TrimSpace(c.Query("search"))

	result, err := h.Profiles.ListByCategory(categoryID, search, page, limit)
	if err != nil {
		log.Error(c, "business.list.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	if len(result.Data) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No businesses found"})
	}

	params := fiber.Map{"category_id": categoryID, "page": page, "limit": limit, "search": search}
	return c.JSON(fiber.Map{
		"message": "Businesses fetched successfully",
		"data": fiber.Map{
			"profiles": result.Data,
			"meta":     meta(params, result.Count, page, limit, len(result.Data)),
		},
	})
}

func (h *BusinessHandler) Renewal(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"), 1)
	limit := validate.Page(c.Query("limit"), 10)
	days := validate.Page(c.Query("days"), 0)

	result, err := h.Profiles.Renewal(days, page, limit)
	if err != nil {
		log.Error(c, "business.renewal.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	if len(result.Data) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No businesses found"})
	}

	params := fiber.Map{"page": page, "limit": limit, "days": days}
	return c.JSON(fiber.Map{
		"message": "Businesses fetched successfully",
		"data": fiber.Map{
			"profiles": result.Data,
			"meta":     meta(params, result.Count, page, limit, len(result.Data)),
		},
	})
}

func (h *BusinessHandler) Count(c *fiber.Ctx) error {
	n, err := h.Profiles.Count()
	if err != nil {
		log.Error(c, "business.count.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Businesses count fetched successfully", "data": n})
}

func (h *BusinessHandler) Patch(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business update failed"})
	}

	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business update failed", "error": err.Error()})
	}

	confirmed, err := h.Profiles.ApplyPatch(id, patch)
	if err != nil {
		log.Error(c, "business.patch.error", err, map[string]any{"id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Business update failed", "error": err.Error()})
	}

	log.Audit(c, "business.patched", map[string]any{"id": id, "fields": len(confirmed)})
	return c.JSON(fiber.Map{"message": "Business updated successfully", "data": confirmed})
}

func (h *BusinessHandler) RegisterMedia(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Media registration failed"})
	}
	var body struct {
		AssetPath string `json:"assetpath"`
	}
	if err := c.BodyParser(&body); err != nil || body.AssetPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Media registration failed"})
	}

	item, err := h.Media.Register(id, body.AssetPath)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Business does not exist or is expired"})
	}
	if err != nil {
		log.Error(c, "media.register.error", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Media registered successfully", "data": item})
}

func (h *BusinessHandler) DeleteMedia(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Media deletion failed"})
	}
	mediaID, ok := validate.ID(c.Params("mediaId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Media deletion failed"})
	}

	err := h.Media.Delete(c.Context(), id, mediaID)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Media item not found"})
	}
	if err != nil {
		log.Error(c, "media.delete.error", err, map[string]any{"id": id, "media_id": mediaID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}
	log.Audit(c, "media.deleted", map[string]any{"id": id, "media_id": mediaID})
	return c.JSON(fiber.Map{"message": "Media deleted successfully", "data": true})
}
