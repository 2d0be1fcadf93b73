package handlers

import (
	"roti/internal/models"
	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the read routes on public and the mutations on
// admin.
func (h *ProductHandler) RegisterRoutes(public, admin fiber.Router) {
	public.Get("/products", h.HandleGetProducts)
	public.Get("/products/:id", h.HandleGetProductByID)

	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products/:id", h.HandleUpdateProduct)
	admin.Delete("/products/:id", h.HandleDeleteProduct)
}

// ProductRequest represents the request body for creating or updating a
// product.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=500"`
	Price       decimal.Decimal  `json:"price"`
	IsOnOffer   bool             `json:"is_on_offer"`
	OfferPrice  *decimal.Decimal `json:"offer_price"`
	Stock       int              `json:"stock" validate:"gte=0"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		IsOnOffer:   r.IsOnOffer,
		OfferPrice:  r.OfferPrice,
		Stock:       r.Stock,
	}
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return success(c, fiber.StatusOK, "Products retrieved", products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return success(c, fiber.StatusOK, "Product retrieved", product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}

	product := req.toModel("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return success(c, fiber.StatusCreated, "Product created", product)
}

// HandleUpdateProduct replaces every field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}

	product := req.toModel(c.Params("id"))
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return success(c, fiber.StatusOK, "Product updated", product)
}

// HandleDeleteProduct deletes a product and its size options.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return success(c, fiber.StatusOK, "Product "+id+" deleted successfully", nil)
}
