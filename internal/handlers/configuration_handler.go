package handlers

import (
	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConfigurationHandler serves the storefront's size picker.
type ConfigurationHandler struct {
	service  *services.ConfigurationService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewConfigurationHandler creates a new ConfigurationHandler.
func NewConfigurationHandler(service *services.ConfigurationService, logger *zap.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ConfigurationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/configuration", h.HandleGetConfiguration)
	router.Post("/products/:id/configuration/select", h.HandleSelectSize)
}

// SelectSizeRequest represents the request body of a size selection.
type SelectSizeRequest struct {
	SizeID string `json:"size_id" validate:"required"`
}

// HandleGetConfiguration returns a product with its sizes and initial
// selection.
func (h *ConfigurationHandler) HandleGetConfiguration(c *fiber.Ctx) error {
	conf, err := h.service.GetConfiguration(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product configuration", err)
	}
	return success(c, fiber.StatusOK, "Product configuration retrieved", conf)
}

// HandleSelectSize prices the chosen size of a product.
func (h *ConfigurationHandler) HandleSelectSize(c *fiber.Ctx) error {
	var req SelectSizeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not select size", err)
	}

	selection, err := h.service.SelectSize(c.UserContext(), c.Params("id"), req.SizeID)
	if err != nil {
		return respondError(c, h.logger, "Could not select size", err)
	}
	return success(c, fiber.StatusOK, "Size selected", selection)
}
