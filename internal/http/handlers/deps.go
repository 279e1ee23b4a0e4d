package handlers

import (
	"bizdir/internal/config"
	"bizdir/internal/repos"
	"bizdir/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	BusinessHandler *BusinessHandler
	AssetHandler    *AssetHandler
	AuthHandler     *AuthHandler
	Auth            *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config, assetSvc *services.AssetService) *Deps {
	profileRepo := repos.NewProfileRepo(db)
	mediaRepo := repos.NewMediaRepo(db)
	licenseRepo := repos.NewLicenseRepo(db)
	userRepo := repos.NewUserRepo(db)

	profileSvc := services.NewProfileService(profileRepo, mediaRepo, licenseRepo, userRepo)
	mediaSvc := services.NewMediaService(mediaRepo, profileRepo, assetSvc)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)

	return &Deps{
		BusinessHandler: &BusinessHandler{Profiles: profileSvc, Media: mediaSvc},
		AssetHandler:    &AssetHandler{Assets: assetSvc},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		Auth:            authSvc,
	}
}
