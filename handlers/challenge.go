// handlers/challenge.go
package handlers

import (
	"dojo-learning-system/middleware"
	"dojo-learning-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challenges *services.ChallengeService, participations *services.ParticipationService, solutions *services.SolutionService) {
	// Context and role gates are attached per route: Group("/", mw)
	// registers the middleware app-wide, onto every route added later.
	userCtx := middleware.UserContextMiddleware()
	mentor := middleware.RequireMentor()
	admin := middleware.RequireAdmin()

	// 🔓 Catalog routes — no user context, but still behind Gateway auth
	app.Get("/challenges", challenges.GetChallenges)
	app.Get("/challenges/:id", challenges.GetChallengeByID)

	// 🔐 Secured routes — require user context (userID, roles)
	app.Post("/challenges/:id/participate", userCtx, participations.Participate)
	app.Post("/challenges/:id/abandon", userCtx, participations.Abandon)
	app.Get("/user/participations", userCtx, participations.ListMine)
	app.Get("/user/stats", userCtx, participations.GetStats)

	app.Post("/challenges/:id/solutions", userCtx, solutions.Submit)
	app.Get("/challenges/:id/solution", userCtx, solutions.GetMine)
	app.Post("/challenges/:id/solution/viewed", userCtx, solutions.MarkViewed)
	app.Delete("/challenges/:id/solution/attachment", userCtx, solutions.DeleteAttachment)

	// 🧑‍🏫 Mentor review queue
	app.Get("/solutions/pending", userCtx, mentor, solutions.ListPending)
	app.Put("/solutions/:id/review", userCtx, mentor, solutions.Review)

	// 🔐 Admin catalog management
	app.Post("/challenges", userCtx, admin, challenges.CreateChallenge)
	app.Put("/challenges/:id", userCtx, admin, challenges.UpdateChallenge)
	app.Patch("/challenges/:id", userCtx, admin, challenges.UpdateChallenge)
	app.Delete("/challenges/:id", userCtx, admin, challenges.ArchiveChallenge)
}
