package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shop-api/internal/config"
	"shop-api/internal/database"
	"shop-api/internal/middleware"
	"shop-api/internal/routes"
)

func main() {
	cfg := config.LoadConfig()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to mongo")
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Warn().Err(err).Msg("error disconnecting from mongo")
		}
	}()

	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Warn().Err(err).Msg("⚠️ could not create indexes")
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	if err := routes.RegisterRoutes(router, client, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("could not register routes")
	}

	log.Info().Str("port", cfg.Port).Msg("🚀 Server running")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
