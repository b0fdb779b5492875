package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"agentmail/internal/service"
)

// Services are the dependencies of the HTTP surface.
type Services struct {
	DB         *sql.DB
	Registry   service.AddressRegistry
	Consents   service.ConsentService
	Intake     service.MailIntake
	Documents  service.DocumentService
	Activation service.AgentActivation
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, s Services) {
	app.Get("/health", HealthCheck(s.DB))
	app.Get("/healthz", LivenessProbe())

	app.Post("/webhooks/mail", MailWebhook(s.Intake))

	app.Get("/addresses/:state", GetAddress(s.Registry))
	app.Patch("/addresses/:state", UpdateAddress(s.Registry))

	entities := app.Group("/entities/:id")
	entities.Post("/registered-agent", ActivateAgent(s.Activation))
	entities.Post("/consents", CreateConsent(s.Consents))
	entities.Get("/consents", ListConsents(s.Consents))
	entities.Get("/documents", ListEntityDocuments(s.Documents))

	app.Get("/consents/:id/document", GetConsentDocument(s.Consents))

	app.Get("/documents/:id", GetDocument(s.Documents))
	app.Post("/documents/:id/process", ProcessDocument(s.Documents))
	app.Post("/documents/:id/forward", ForwardDocument(s.Documents))
	app.Get("/documents/:id/audit", GetAuditTrail(s.Documents))
}
