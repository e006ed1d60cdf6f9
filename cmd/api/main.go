package main

import (
	"os"

	"github.com/campushub/backend/internal/pkg/logger"
	"github.com/campushub/backend/internal/server"
)

// @title CampusHub API
// @version 1.0
// @description REST backend for the CampusHub campus portal

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description JWT access token, also accepted via the accessToken cookie

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
