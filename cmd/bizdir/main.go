package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"bizdir/internal/assets"
	"bizdir/internal/config"
	"bizdir/internal/http/handlers"
	applog "bizdir/internal/log"
	"bizdir/internal/repos"
	"bizdir/internal/services"
)

func main() {
	// Optional .env; env vars win when both are present
	_ = godotenv.Load()

	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	assetStore, err := assets.NewLocalStore(cfg.AssetDir)
	if err != nil {
		log.Fatal(err)
	}
	assetSvc := services.NewAssetService(assetStore, cfg.AssetBase, cfg.AssetSecret, cfg.AssetTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal Server Error",
			})
		},
	})
	// Global body size guard; uploads are the largest payloads
	app.Server().MaxRequestBodySize = 10 << 20 // 10 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/assets/")
		},
	}))

	deps := handlers.NewDeps(db, cfg, assetSvc)

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), deps.AuthHandler.Login)

	biz := api.Group("/business")
	biz.Post("/", deps.BusinessHandler.Create)
	biz.Get("/renewal", deps.BusinessHandler.Renewal)
	biz.Get("/count", deps.BusinessHandler.Count)
	slugLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|slug"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.slugcheck.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	biz.Get("/slug/check", slugLimiter, deps.BusinessHandler.CheckSlug)
	biz.Get("/", deps.BusinessHandler.List)
	biz.Get("/:slug", deps.BusinessHandler.GetBySlug)
	biz.Patch("/:id", handlers.RequireToken(deps.Auth), deps.BusinessHandler.Patch)
	biz.Post("/:id/media", handlers.RequireToken(deps.Auth), deps.BusinessHandler.RegisterMedia)
	biz.Delete("/:id/media/:mediaId", handlers.RequireToken(deps.Auth), deps.BusinessHandler.DeleteMedia)

	// Presigned upload surface
	api.Post("/assets/url", handlers.RequireToken(deps.Auth), deps.AssetHandler.GetUploadURL)
	api.Put("/assets/upload/*", deps.AssetHandler.Upload)

	// Asset base for rendering stored paths
	app.Get("/assets/*", deps.AssetHandler.Serve)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
