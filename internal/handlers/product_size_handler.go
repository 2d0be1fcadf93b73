package handlers

import (
	"fmt"
	"slices"

	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductSizeHandler lets staff manage which sizes a product is sold in.
type ProductSizeHandler struct {
	service  *services.ProductSizeService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductSizeHandler creates a new ProductSizeHandler.
func NewProductSizeHandler(service *services.ProductSizeService, logger *zap.Logger) *ProductSizeHandler {
	return &ProductSizeHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the size assignment routes. router must be
// restricted to admins.
func (h *ProductSizeHandler) RegisterRoutes(router fiber.Router) {
	sizes := router.Group("/products/:id/sizes")
	sizes.Get("/", h.HandleListSizes)
	sizes.Post("/", h.HandleAttachSize)
	sizes.Put("/", h.HandleReplaceSizes)
	sizes.Put("/default", h.HandleSetDefaultSize)
	sizes.Delete("/:sizeId", h.HandleDetachSize)
}

// AttachSizeRequest represents the request body for attaching a size.
type AttachSizeRequest struct {
	SizeID    string `json:"size_id" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// SetDefaultSizeRequest represents the request body for changing the
// default size.
type SetDefaultSizeRequest struct {
	SizeID string `json:"size_id" validate:"required"`
}

// ReplaceSizesRequest represents the request body for replacing every size
// of a product.
type ReplaceSizesRequest struct {
	SizeIDs       []string `json:"size_ids" validate:"dive,required"`
	DefaultSizeID string   `json:"default_size_id"`
}

func (h *ProductSizeHandler) HandleListSizes(c *fiber.Ctx) error {
	options, err := h.service.ListSizes(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product sizes", err)
	}
	return success(c, fiber.StatusOK, "Product sizes retrieved", options)
}

func (h *ProductSizeHandler) HandleAttachSize(c *fiber.Ctx) error {
	var req AttachSizeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not attach size", err)
	}

	option, err := h.service.AttachSize(c.UserContext(), c.Params("id"), req.SizeID, req.IsDefault)
	if err != nil {
		return respondError(c, h.logger, "Could not attach size", err)
	}
	return success(c, fiber.StatusCreated, "Size attached", option)
}

func (h *ProductSizeHandler) HandleSetDefaultSize(c *fiber.Ctx) error {
	var req SetDefaultSizeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not set default size", err)
	}

	option, err := h.service.SetDefaultSize(c.UserContext(), c.Params("id"), req.SizeID)
	if err != nil {
		return respondError(c, h.logger, "Could not set default size", err)
	}
	return success(c, fiber.StatusOK, "Default size updated", option)
}

// HandleReplaceSizes replaces the product's sizes. A default that is not
// one of the new sizes is rejected here; an empty default is allowed.
func (h *ProductSizeHandler) HandleReplaceSizes(c *fiber.Ctx) error {
	var req ReplaceSizesRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not replace sizes", err)
	}
	if req.DefaultSizeID != "" && !slices.Contains(req.SizeIDs, req.DefaultSizeID) {
		return respondError(c, h.logger, "Could not replace sizes", &requestError{
			message: "Validation failed",
			fields: map[string]string{
				"DefaultSizeID": fmt.Sprintf("default size %s is not among size_ids", req.DefaultSizeID),
			},
		})
	}

	options, err := h.service.ReplaceAllSizes(c.UserContext(), c.Params("id"), req.SizeIDs, req.DefaultSizeID)
	if err != nil {
		return respondError(c, h.logger, "Could not replace sizes", err)
	}
	return success(c, fiber.StatusOK, "Product sizes replaced", options)
}

func (h *ProductSizeHandler) HandleDetachSize(c *fiber.Ctx) error {
	if err := h.service.DetachSize(c.UserContext(), c.Params("id"), c.Params("sizeId")); err != nil {
		return respondError(c, h.logger, "Could not detach size", err)
	}
	return success(c, fiber.StatusOK, "Size detached", nil)
}
