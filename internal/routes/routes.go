package routes

import (
	"time"

	"laptopshop/internal/handlers"
	"laptopshop/internal/middleware"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	APIPrefix   = "/api/v1"
	AdminPrefix = APIPrefix + "/admin"
	LoginPath   = AdminPrefix + "/auth/login"
)

// Handlers bundles every HTTP handler of the API.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Product  *handlers.ProductHandler
	Catalog  *handlers.CatalogHandler
	Order    *handlers.OrderHandler
	Customer *handlers.CustomerHandler
	Warranty *handlers.WarrantyHandler
	Review   *handlers.ReviewHandler
	Post     *handlers.PostHandler
	Software *handlers.SoftwareHandler
	AI       *handlers.AIHandler
	Media    *handlers.MediaHandler
}

// RateLimit configures the limiter applied to login, checkout, review
// submission and the AI endpoints. A nil Storage keeps counters in memory.
type RateLimit struct {
	Storage fiber.Storage
	Max     int
	Window  time.Duration
}

// NewApp creates the Fiber app with the common middleware and error envelope.
func NewApp(appName string, requestLogging bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	if requestLogging {
		app.Use(logger.New()) // Request logger
	}
	app.Use(cors.New())
	return app
}

// Register mounts the public storefront API and the gated admin API.
func Register(app *fiber.App, authService *services.AuthService, h Handlers, rl RateLimit) {
	limit := func(group string) fiber.Handler {
		return middleware.NewRateLimiter(rl.Storage, rl.Max, rl.Window, group)
	}

	app.Use(middleware.AdminGate(authService, AdminPrefix, LoginPath))

	apiV1 := app.Group(APIPrefix)
	apiV1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			},
		})
	})

	h.Product.RegisterRoutes(apiV1)
	h.Catalog.RegisterRoutes(apiV1)
	h.Order.RegisterRoutes(apiV1, limit("checkout"))
	h.Warranty.RegisterRoutes(apiV1)
	h.Review.RegisterRoutes(apiV1, limit("reviews"))
	h.Post.RegisterRoutes(apiV1)
	h.Software.RegisterRoutes(apiV1)
	h.AI.RegisterRoutes(apiV1, limit("ai-search"))

	admin := apiV1.Group("/admin")
	h.Auth.RegisterRoutes(admin, limit("login"))
	h.User.RegisterRoutes(admin)
	h.Product.RegisterAdminRoutes(admin)
	h.Catalog.RegisterAdminRoutes(admin)
	h.Order.RegisterAdminRoutes(admin)
	h.Customer.RegisterAdminRoutes(admin)
	h.Review.RegisterAdminRoutes(admin)
	h.Post.RegisterAdminRoutes(admin)
	h.Software.RegisterAdminRoutes(admin)
	h.Media.RegisterAdminRoutes(admin)
	h.AI.RegisterAdminRoutes(admin, limit("ai-admin"))
}
