// handlers/user.go
package handlers

import (
	"dojo-learning-system/middleware"
	"dojo-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, users *services.UserService, badges *services.BadgeService) {
	userCtx := middleware.UserContextMiddleware()

	// 🔓 Public within the Gateway perimeter
	app.Get("/leaderboard", users.GetLeaderboard)
	app.Get("/badges", badges.ListAll)

	// 🔐 Secured routes
	app.Get("/me", userCtx, users.GetMe)
	app.Put("/me", userCtx, users.UpdateProfile)
	app.Get("/user/progress", userCtx, users.GetProgress)
	app.Get("/user/badges", userCtx, badges.ListMine)

	// 🔐 Admin endpoints — path-scoped group, middleware stays under /s/admin
	admin := app.Group("/s/admin", userCtx, middleware.RequireAdmin())
	admin.Post("/xp/grant", users.GrantXP)
	admin.Post("/badges/:id/award", badges.AdminAward)
}
