package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agentmail/internal/model"
	"agentmail/internal/service"
)

type createConsentRequest struct {
	State string `json:"state"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: len(items)}
}

// validID rejects ids that are not UUIDs before they reach the database.
func validID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// CreateConsent records the registered agent's consent for an entity in the requested state.
//
// @Summary  Create registered agent consent
// @Tags     consents
// @Accept   json
// @Produce  json
// @Param    id      path string               true "business entity id"
// @Param    payload body createConsentRequest true "state of formation"
// @Success  201 {object} model.AgentConsent
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /entities/{id}/consents [post]
func CreateConsent(consents service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req createConsentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid consent payload")
		}
		consent, err := consents.CreateConsent(c.UserContext(), entityID, req.State)
		if err != nil {
			return writeServiceError(c, err, "consent not found")
		}
		return c.Status(fiber.StatusCreated).JSON(consent)
	}
}

// ListConsents lists an entity's consents, newest first.
//
// @Summary  List consents of an entity
// @Tags     consents
// @Produce  json
// @Param    id path string true "business entity id"
// @Success  200 {object} listResponse[model.AgentConsent]
// @Router   /entities/{id}/consents [get]
func ListConsents(consents service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := consents.ListConsents(c.UserContext(), entityID)
		if err != nil {
			return writeServiceError(c, err, "consent not found")
		}
		return c.JSON(newListResponse[model.AgentConsent](items))
	}
}

// GetConsentDocument streams the archived consent document.
//
// @Summary  Download a consent document
// @Tags     consents
// @Produce  plain
// @Param    id path string true "consent id"
// @Success  200 {string} string
// @Failure  404 {object} errorPayload
// @Router   /consents/{id}/document [get]
func GetConsentDocument(consents service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := consents.ConsentDocument(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "consent document not found")
		}
		contentType := info.ContentType
		if contentType == "" {
			contentType = fiber.MIMETextPlainCharsetUTF8
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="consent-`+id+`.txt"`)
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}

// ActivateAgent enables the registered-agent service for an entity.
//
// @Summary  Activate registered agent service
// @Tags     entities
// @Produce  json
// @Param    id path string true "business entity id"
// @Success  201 {object} service.ActivationResult
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /entities/{id}/registered-agent [post]
func ActivateAgent(activation service.AgentActivation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := activation.Activate(c.UserContext(), entityID)
		if err != nil {
			return writeServiceError(c, err, "business entity not found")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
