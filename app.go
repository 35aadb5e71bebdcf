package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"shoeshop/internal/config"
	"shoeshop/internal/handlers"
	"shoeshop/internal/middleware"
	"shoeshop/internal/repositories"
	"shoeshop/internal/services"
)

// NewApp wires services and handlers over store. events may be nil, in which
// case no shop events are published.
func NewApp(cfg config.Config, store *repositories.Store, events services.EventPublisher) *fiber.App {
	authService := services.NewAuthService(store.Users, events, cfg.HashPasswords)
	productService := services.NewProductService(store.Products, events)
	cartService := services.NewCartService(store.Cart, events)

	app := fiber.New(fiber.Config{
		AppName:      "shoeshop",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(store.Driver, store).RegisterRoutes(app)
	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app)
	handlers.NewCartHandler(cartService).RegisterRoutes(app)

	return app
}
