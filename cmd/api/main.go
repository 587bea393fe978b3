package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidstream/internal/config"
	"vidstream/internal/database"
	"vidstream/internal/media"
	"vidstream/internal/middleware"
	"vidstream/internal/modules/account"
	"vidstream/internal/pkg/logger"
	"vidstream/internal/pkg/token"
	"vidstream/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	mediaClient, err := media.NewClient(context.Background(), cfg, logg)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tokens := token.NewManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	accountService := account.NewService(userRepo, mediaClient, tokens, logg)
	accountHandler := account.NewHandler(accountService, cfg, logg)

	r := gin.New()
	r.Use(middleware.RequestLogger(logg))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		accountHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(tokens, userRepo, logg))
		{
			accountHandler.RegisterProtectedRoutes(protected)
		}
	}

	logg.Info("listening", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal(err)
	}
}
