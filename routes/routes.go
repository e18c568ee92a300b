package routes

import (
	"github.com/gofiber/fiber/v2"

	"requestlog-backend/controllers"
	"requestlog-backend/middlewares"
	"requestlog-backend/models"
	"requestlog-backend/requestlog"
)

// Register wires all HTTP routes. Exactly one requestlog instance runs
// per request: the public auth endpoints mount theirs per-route (a
// group-level Use on the shared /api prefix would also run for the
// protected routes below), while the protected API carries the
// enforcing instance in its middleware chain.
func Register(app *fiber.App, store requestlog.Store) {
	api := app.Group("/api")

	resourceTypes := []models.ResourceType{models.ResourceUser, models.ResourcePayment}

	// Public auth endpoints: logged, but idempotency is not supported here.
	// Supplying an Idempotency-Key against these is a client error.
	publicLog := requestlog.New(requestlog.Config{
		Store:              store,
		IdempotencyEnabled: false,
		ResourceTypes:      resourceTypes,
	})
	api.Post("/registration", publicLog, controllers.Register)
	api.Post("/login", publicLog, controllers.Login)
	api.Post("/logout", publicLog, controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Requestlog guard FIRST (claims must not ride the request TX)
	protected.Use(requestlog.New(requestlog.Config{
		Store:              store,
		IdempotencyEnabled: true,
		ResourceTypes:      resourceTypes,
	}))

	// Then the per-request transaction for business handlers
	protected.Use(middlewares.RequestTx())

	// Payments
	protected.Post("/payment", controllers.CreatePayment)
	protected.Get("/payments", controllers.GetPayments)
	protected.Put("/payment/:id", controllers.UpdatePayment)

	// Request log browsing
	protected.Get("/requests", controllers.GetRequests)
}
