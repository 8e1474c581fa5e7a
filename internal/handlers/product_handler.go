package handlers

import (
	"log/slog"
	"strconv"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid product id")
	}
	return id, nil
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "products fetched successfully",
		"products": products,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, err)
	}
	product, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var fields models.ProductFields
	if err := c.BodyParser(&fields); err != nil {
		slog.DebugContext(c.UserContext(), "invalid product body", "error", err)
		return RespondError(c, apperrors.Validation("invalid request body"))
	}

	product, err := h.service.Create(c.UserContext(), fields)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "product added successfully",
		"product": product,
	})
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, err)
	}
	if len(c.Body()) == 0 {
		return RespondError(c, apperrors.Validation("request body is required"))
	}

	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		slog.DebugContext(c.UserContext(), "invalid product patch", "product_id", id, "error", err)
		return RespondError(c, apperrors.Validation("invalid request body"))
	}
	if patch.IsEmpty() {
		return RespondError(c, apperrors.Validation("no fields to update"))
	}

	product, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return RespondError(c, err)
	}
	if err := h.service.Remove(c.UserContext(), id); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted successfully"})
}
