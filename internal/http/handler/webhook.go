package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"agentmail/internal/model"
	"agentmail/internal/service"
)

type webhookStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// MailWebhook accepts new-mail notifications from the virtual-mailbox provider.
// Mail for an unknown recipient and repeated deliveries are acknowledged with 200 so the
// provider does not retry them.
//
// @Summary  Virtual mailbox new-mail webhook
// @Tags     webhooks
// @Accept   json
// @Produce  json
// @Param    payload body model.MailWebhook true "mail notification"
// @Success  201 {object} model.ReceivedDocument
// @Success  200 {object} webhookStatus
// @Failure  400 {object} errorPayload
// @Router   /webhooks/mail [post]
func MailWebhook(intake service.MailIntake) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload model.MailWebhook
		if err := c.BodyParser(&payload); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid webhook payload")
		}
		if strings.TrimSpace(payload.MailID) == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "mail_id is required")
		}

		doc, err := intake.HandleMailNotification(c.UserContext(), payload)
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(doc)
		case errors.Is(err, service.ErrEntityNotFound):
			return c.JSON(webhookStatus{Status: "ignored", Reason: "no_matching_entity"})
		case errors.Is(err, service.ErrDuplicateDelivery):
			return c.JSON(webhookStatus{Status: "duplicate"})
		default:
			return writeServiceError(c, err, "resource not found")
		}
	}
}
