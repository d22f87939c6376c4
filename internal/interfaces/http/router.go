package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/auth"
	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Cart      *cart.Cart
	Catalog   *catalog.Snapshot
	Checkout  *checkout.SubmitOrderUseCase
	AuthUC    *auth.AuthUseCase
	Movements repository.StockMovementRepository // nil sin PostgreSQL
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Cart, log)
	protected.Get("/catalog/recipes", catalogHandler.ListRecipes)
	protected.Get("/catalog/stock", catalogHandler.ListStock)
	if deps.Movements != nil {
		movementHandler := NewMovementHandler(deps.Movements, log)
		protected.Get("/catalog/stock/:id/movements", RequireRole(entity.RoleAdmin), movementHandler.List)
	}

	cartHandler := NewCartHandler(deps.Cart, deps.Catalog, log)
	protected.Get("/cart", cartHandler.Get)
	protected.Delete("/cart", cartHandler.Clear)
	protected.Post("/cart/lines", cartHandler.AddLine)
	protected.Post("/cart/lines/:id/increment", cartHandler.Increment)
	protected.Post("/cart/lines/:id/decrement", cartHandler.Decrement)
	protected.Get("/cart/lines/:id/availability", cartHandler.Availability)
	protected.Put("/cart/lines/:id", cartHandler.SetQuantity)
	protected.Delete("/cart/lines/:id", cartHandler.RemoveLine)

	checkoutHandler := NewCheckoutHandler(deps.Checkout, log)
	protected.Post("/checkout", checkoutHandler.Submit)

	// Edición de recetas: solo administradores.
	recipeHandler := NewRecipeHandler(deps.Catalog, deps.Cart, log)
	protected.Post("/recipes/:id/preview", RequireRole(entity.RoleAdmin), recipeHandler.Preview)
}
