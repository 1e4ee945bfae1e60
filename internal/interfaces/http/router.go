package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/pkg/jwt"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *inventory.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	SupplyOrderUC    *inventory.SupplyOrderUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	ReferralUC       *referral.UseCase
	JWTSecret        string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Escrituras del catálogo y suministros: administración y almacén.
	// Movimientos: también enfermería (salidas de medicamento).
	catalog := RequireRole(jwt.RoleAdmin, jwt.RoleAlmacen)
	stock := RequireRole(jwt.RoleAdmin, jwt.RoleAlmacen, jwt.RoleEnfermeria)
	clinical := RequireRole(jwt.RoleAdmin, jwt.RoleEnfermeria)

	inv := api.Group("/inventario")

	productHandler := NewProductHandler(deps.ProductUC)
	inv.Post("/productos", catalog, productHandler.Create)
	inv.Get("/productos", productHandler.List)
	inv.Get("/productos/:id", productHandler.GetByID)
	inv.Put("/productos/:id", catalog, productHandler.Update)
	inv.Delete("/productos/:id", RequireRole(jwt.RoleAdmin), productHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	inv.Post("/movimientos", stock, inventoryHandler.RegisterMovement)
	inv.Get("/movimientos", inventoryHandler.ListMovements)
	inv.Get("/movimientos/:id", inventoryHandler.GetMovement)
	inv.Get("/stock-bajo", inventoryHandler.ListLowStock)

	supplyHandler := NewSupplyOrderHandler(deps.SupplyOrderUC)
	inv.Post("/suministros", catalog, supplyHandler.Create)
	inv.Get("/suministros", supplyHandler.List)
	inv.Get("/suministros/:id", supplyHandler.GetByID)
	inv.Put("/suministros/:id", catalog, supplyHandler.Update)
	inv.Delete("/suministros/:id", catalog, supplyHandler.Delete)

	referrals := api.Group("/remisiones")
	referralHandler := NewReferralHandler(deps.ReferralUC)
	referrals.Post("/", clinical, referralHandler.Create)
	referrals.Get("/", referralHandler.List)
	referrals.Get("/:id", referralHandler.GetByID)
	referrals.Put("/:id", clinical, referralHandler.Update)
	referrals.Delete("/:id", RequireRole(jwt.RoleAdmin), referralHandler.Delete)
	referrals.Post("/:id/seguimiento", clinical, referralHandler.AddTrackingEvent)
	referrals.Get("/:id/seguimiento", referralHandler.ListTrackingEvents)
	referrals.Post("/:id/trazabilidad", clinical, referralHandler.AddInvolvement)
	referrals.Get("/:id/trazabilidad", referralHandler.ListInvolvements)
}
