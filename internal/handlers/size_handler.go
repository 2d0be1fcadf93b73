package handlers

import (
	"roti/internal/models"
	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SizeHandler handles HTTP requests for the size catalog.
type SizeHandler struct {
	service  *services.SizeService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSizeHandler creates a new SizeHandler.
func NewSizeHandler(service *services.SizeService, logger *zap.Logger) *SizeHandler {
	return &SizeHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the read routes on public and the mutations on
// admin.
func (h *SizeHandler) RegisterRoutes(public, admin fiber.Router) {
	public.Get("/sizes", h.HandleGetSizes)
	public.Get("/sizes/:id", h.HandleGetSizeByID)

	admin.Post("/sizes", h.HandleCreateSize)
	admin.Put("/sizes/:id", h.HandleUpdateSize)
	admin.Delete("/sizes/:id", h.HandleDeleteSize)
}

// SizeRequest represents the request body for creating or updating a size.
type SizeRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	PersonCapacity  int             `json:"person_capacity" validate:"required,gt=0"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

func (h *SizeHandler) HandleGetSizes(c *fiber.Ctx) error {
	sizes, err := h.service.GetAllSizes(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve sizes", err)
	}
	return success(c, fiber.StatusOK, "Sizes retrieved", sizes)
}

func (h *SizeHandler) HandleGetSizeByID(c *fiber.Ctx) error {
	size, err := h.service.GetSizeByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve size", err)
	}
	return success(c, fiber.StatusOK, "Size retrieved", size)
}

func (h *SizeHandler) HandleCreateSize(c *fiber.Ctx) error {
	var req SizeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not create size", err)
	}

	size := &models.Size{Name: req.Name, PersonCapacity: req.PersonCapacity, AdditionalPrice: req.AdditionalPrice}
	if err := h.service.CreateSize(c.UserContext(), size); err != nil {
		return respondError(c, h.logger, "Could not create size", err)
	}
	return success(c, fiber.StatusCreated, "Size created", size)
}

func (h *SizeHandler) HandleUpdateSize(c *fiber.Ctx) error {
	var req SizeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not update size", err)
	}

	size := &models.Size{ID: c.Params("id"), Name: req.Name, PersonCapacity: req.PersonCapacity, AdditionalPrice: req.AdditionalPrice}
	if err := h.service.UpdateSize(c.UserContext(), size); err != nil {
		return respondError(c, h.logger, "Could not update size", err)
	}
	return success(c, fiber.StatusOK, "Size updated", size)
}

// HandleDeleteSize removes a size no product uses any more.
func (h *SizeHandler) HandleDeleteSize(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteSize(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "Could not delete size", err)
	}
	return success(c, fiber.StatusOK, "Size "+id+" deleted successfully", nil)
}
