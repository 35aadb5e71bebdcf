package handlers

import (
	"bytes"
	"log"

	"shoeshop/internal/models"
	"shoeshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/export", h.HandleExportProducts)
}

// HandleGetProducts returns every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching products",
		})
	}
	return c.JSON(products)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.AddProductRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return invalidBody(c)
	}

	product := req.ToProduct()
	err := h.validate.Struct(req)
	if err == nil {
		err = h.service.CreateProduct(c.UserContext(), &product)
	}
	if err != nil {
		log.Printf("Error adding product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error adding product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleExportProducts downloads the catalog as an xlsx workbook.
func (h *ProductHandler) HandleExportProducts(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCatalog(c.UserContext(), &buf); err != nil {
		log.Printf("Error exporting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error exporting products",
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Send(buf.Bytes())
}
