// handlers/event.go
package handlers

import (
	"dojo-learning-system/middleware"
	"dojo-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, events *services.EventService) {
	app.Get("/events", events.GetEvents)

	userCtx := middleware.UserContextMiddleware()
	admin := middleware.RequireAdmin()
	app.Post("/events", userCtx, admin, events.CreateEvent)
	app.Put("/events/:id", userCtx, admin, events.UpdateEvent)
	app.Delete("/events/:id", userCtx, admin, events.ArchiveEvent)
}
