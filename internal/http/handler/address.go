package handler

import (
	"github.com/gofiber/fiber/v2"

	"agentmail/internal/service"
)

type updateAddressRequest struct {
	IsActive *bool `json:"is_active"`
}

// GetAddress returns the registered-agent address for a state, creating it on first use.
//
// @Summary  Registered agent address for a state
// @Tags     addresses
// @Produce  json
// @Param    state path string true "full state name or USPS code"
// @Success  200 {object} model.AgentAddress
// @Failure  422 {object} errorPayload
// @Router   /addresses/{state} [get]
func GetAddress(registry service.AddressRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		addr, err := registry.GetOrCreate(c.UserContext(), c.Params("state"))
		if err != nil {
			return writeServiceError(c, err, "address not found")
		}
		return c.JSON(addr)
	}
}

// UpdateAddress activates or deactivates a state's address.
//
// @Summary  Activate or deactivate a registered agent address
// @Tags     addresses
// @Accept   json
// @Produce  json
// @Param    state   path string               true "full state name or USPS code"
// @Param    payload body updateAddressRequest true "new status"
// @Success  200 {object} model.AgentAddress
// @Failure  404 {object} errorPayload
// @Router   /addresses/{state} [patch]
func UpdateAddress(registry service.AddressRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateAddressRequest
		if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "is_active is required")
		}
		addr, err := registry.SetActive(c.UserContext(), c.Params("state"), *req.IsActive)
		if err != nil {
			return writeServiceError(c, err, "address not created yet")
		}
		return c.JSON(addr)
	}
}
