package app

import (
	"log"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	"github.com/AHKAYY007/Property-finder-dapp/internal/cache"
	"github.com/AHKAYY007/Property-finder-dapp/internal/config"
	"github.com/AHKAYY007/Property-finder-dapp/internal/handlers"
	"github.com/AHKAYY007/Property-finder-dapp/internal/ipfs"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"
	"github.com/AHKAYY007/Property-finder-dapp/internal/service"
	"github.com/AHKAYY007/Property-finder-dapp/internal/sui"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL.Duration())
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	nonces := auth.NewRedisNonceStore(rdb, cfg.JWT.NonceTTL.Duration())
	chain := sui.NewClient(cfg.Sui.RPCURL, cfg.Sui.Timeout.Duration())
	files := ipfs.NewClient(cfg.IPFS.APIURL, cfg.IPFS.Gateway)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo, nonces, chain, tokens)
	authHandler := handlers.NewAuthHandler(authSvc)
	registerAuthRoutes(api, authHandler)

	propRepo := repo.NewPGPropertyRepo(db)
	propCache := cache.NewPropertyCache(rdb, cfg.Redis.DefaultTTL.Duration())
	propSvc := service.NewPropertyService(propRepo, propCache, files, chain)
	propHandler := handlers.NewPropertyHandler(propSvc)
	userHandler := handlers.NewUserHandler(userSvc, propSvc)

	// Listing reads are public; everything mutating requires a Bearer token.
	api.GET("/properties", propHandler.Search)
	api.GET("/properties/:id", propHandler.GetByID)

	protected := api.Group("", auth.RequireToken(tokens, userRepo))
	registerUserRoutes(protected, userHandler)
	registerPropertyRoutes(protected, propHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Property Finder API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"network": cfg.Sui.Network,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/nonce", h.Nonce)
	api.POST("/auth/verify", h.Verify)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users/me", h.Me)
	api.PATCH("/users/me", h.UpdateMe)
	api.GET("/users/me/favorites", h.Favorites)
}

func registerPropertyRoutes(api *gin.RouterGroup, h *handlers.PropertyHandler) {
	api.POST("/properties", h.Create)
	api.PUT("/properties/:id", h.Update)
	api.POST("/properties/:id/images", h.UploadImages)
	api.POST("/properties/:id/documents", h.UploadDocuments)
	api.POST("/properties/:id/mint", h.Mint)
	api.POST("/properties/:id/list", h.List)
	api.POST("/properties/:id/favorite", h.AddFavorite)
	api.DELETE("/properties/:id/favorite", h.RemoveFavorite)
}
