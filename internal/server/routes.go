package server

import (
	"researcher/internal/core/job"
	"researcher/internal/health"
	"researcher/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Jobs   *job.Service
	Runner *job.Runner
	Redis  *redis.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.Handler {
	healthHandler := health.NewHandler(d.Redis)
	app.Get("/v1/health", health.Limiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	researchHandler := job.NewHandler(d.Jobs, d.Runner)
	api.Post("/research", researchHandler.HandleCreateResearch)
	api.Get("/research/:jobId", researchHandler.HandleGetResearch)

	return healthHandler
}
