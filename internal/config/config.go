package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DBDSN       string
	AssetDir    string        // local blob storage root
	AssetBase   string        // public base URL for serving asset paths
	AssetSecret string        // HMAC key for presigned upload URLs
	AssetTTL    time.Duration // presigned URL lifetime
	JWTSecret   string
	LogFile     string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "bizdir.db"
	} // sqlite file in project root
	assetDir := os.Getenv("ASSET_DIR")
	if assetDir == "" {
		assetDir = "./data/assets"
	}
	assetBase := os.Getenv("ASSET_BASE_URL")
	if assetBase == "" {
		assetBase = "http://localhost:" + port
	}
	secret := os.Getenv("ASSET_SECRET")
	if secret == "" {
		secret = "dev-asset-secret"
	}
	ttl := 5 * time.Minute
	if raw := os.Getenv("ASSET_TTL_SECONDS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-jwt-secret"
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{
		Port: port, DBDSN: dsn, AssetDir: assetDir, AssetBase: assetBase,
		AssetSecret: secret, AssetTTL: ttl, JWTSecret: jwtSecret, LogFile: logFile,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s ASSET_DIR=%s ASSET_BASE_URL=%s", cfg.Port, cfg.DBDSN, cfg.AssetDir, cfg.AssetBase)
	return cfg
}
