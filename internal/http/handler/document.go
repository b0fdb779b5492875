package handler

import (
	"github.com/gofiber/fiber/v2"

	"agentmail/internal/model"
	"agentmail/internal/service"
)

type processRequest struct {
	HandledBy string `json:"handled_by"`
}

type forwardRequest struct {
	HandledBy  string  `json:"handled_by"`
	DigitalURL *string `json:"digital_url"`
}

// parseOptionalBody accepts an empty body as the zero request.
func parseOptionalBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// ListEntityDocuments lists an entity's documents, most recently received first.
//
// @Summary  List received documents of an entity
// @Tags     documents
// @Produce  json
// @Param    id path string true "business entity id"
// @Success  200 {object} listResponse[model.ReceivedDocument]
// @Failure  404 {object} errorPayload
// @Router   /entities/{id}/documents [get]
func ListEntityDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := docs.ListForEntity(c.UserContext(), entityID)
		if err != nil {
			return writeServiceError(c, err, "business entity not found")
		}
		return c.JSON(newListResponse[model.ReceivedDocument](items))
	}
}

// GetDocument returns one received document.
//
// @Summary  Get a received document
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} model.ReceivedDocument
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [get]
func GetDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docs.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "document not found")
		}
		return c.JSON(doc)
	}
}

// ProcessDocument marks a received document as processed.
//
// @Summary  Mark a document processed
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    id      path string         true  "document id"
// @Param    payload body processRequest false "handler"
// @Success  200 {object} model.ReceivedDocument
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /documents/{id}/process [post]
func ProcessDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req processRequest
		if err := parseOptionalBody(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		doc, err := docs.Process(c.UserContext(), id, req.HandledBy)
		if err != nil {
			return writeServiceError(c, err, "document not found")
		}
		return c.JSON(doc)
	}
}

// ForwardDocument forwards a document to the client.
//
// @Summary  Forward a document to the client
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    id      path string         true  "document id"
// @Param    payload body forwardRequest false "handler and optional digital copy URL"
// @Success  200 {object} model.ReceivedDocument
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /documents/{id}/forward [post]
func ForwardDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req forwardRequest
		if err := parseOptionalBody(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		doc, err := docs.Forward(c.UserContext(), id, req.HandledBy, req.DigitalURL)
		if err != nil {
			return writeServiceError(c, err, "document not found")
		}
		return c.JSON(doc)
	}
}

// GetAuditTrail returns a document's audit entries in chronological order.
//
// @Summary  Document audit trail
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} listResponse[model.AuditEntry]
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/audit [get]
func GetAuditTrail(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		entries, err := docs.AuditTrail(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "document not found")
		}
		return c.JSON(newListResponse[model.AuditEntry](entries))
	}
}
