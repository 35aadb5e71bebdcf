package handlers

import (
	"errors"
	"log"

	"shoeshop/internal/models"
	"shoeshop/internal/repositories"
	"shoeshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	validate := validator.New()
	validate.RegisterStructValidation(validateAddCartItem, models.AddCartItemRequest{})
	return &CartHandler{
		service:  service,
		validate: validate,
	}
}

// validateAddCartItem rejects an explicit "quantity": null. Only an absent
// quantity falls back to the default.
func validateAddCartItem(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.AddCartItemRequest)
	if req.Quantity.Null {
		sl.ReportError(req.Quantity, "quantity", "Quantity", "required", "")
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddCartItem)
	cartRoutes.Delete("/:id", h.HandleDeleteCartItem)
	cartRoutes.Put("/:id", h.HandleUpdateQuantity)
}

// HandleGetCart returns every cart line.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetItems(c.UserContext())
	if err != nil {
		log.Printf("Error fetching cart items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching cart items",
		})
	}
	return c.JSON(items)
}

// HandleAddCartItem adds a cart line; quantity defaults to 1.
func (h *CartHandler) HandleAddCartItem(c *fiber.Ctx) error {
	var req models.AddCartItemRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return invalidBody(c)
	}

	item := req.ToCartItem()
	err := h.validate.Struct(req)
	if err == nil {
		err = h.service.AddItem(c.UserContext(), &item)
	}
	if err != nil {
		log.Printf("Error adding cart item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error adding cart item",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleDeleteCartItem removes the first cart line whose id matches the path.
func (h *CartHandler) HandleDeleteCartItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.RemoveItem(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return cartItemNotFound(c)
		}
		log.Printf("Error deleting cart item %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error deleting cart item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cart item deleted successfully",
	})
}

// HandleUpdateQuantity overwrites the quantity of the first cart line whose
// id matches the path and returns the updated line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	var req models.UpdateQuantityRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing quantity update body: %v", err)
		return invalidBody(c)
	}

	if err := h.validate.Struct(req); err != nil {
		log.Printf("Error updating cart item %s quantity: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error updating cart item quantity",
		})
	}

	item, err := h.service.UpdateQuantity(c.UserContext(), id, *req.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return cartItemNotFound(c)
		}
		log.Printf("Error updating cart item %s quantity: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error updating cart item quantity",
		})
	}

	return c.JSON(item)
}

func cartItemNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Cart item not found",
	})
}
