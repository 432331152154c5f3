package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	AdjustUC   *inventory.AdjustQuantityUseCase
	SupplierUC *usecase.SupplierUseCase
	ClientUC   *usecase.ClientUseCase
	UserUC     *usecase.UserUseCase
	PurchaseUC *orders.PurchaseUseCase
	SaleUC     *orders.SaleUseCase
	ReceiptUC  *orders.ReceiptUseCase
	Audit      *audit.Service
	Gate       *authz.Gate
	JWTSecret  string
}

// Router registra las rutas de la API. Toda ruta protegida pasa por AuthMiddleware y luego por RequireOperation.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	can := func(op authz.Operation) fiber.Handler { return RequireOperation(deps.Gate, op) }

	// Auth (register y login públicos)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authn, authHandler.Me)

	// Products
	products := api.Group("/products", authn)
	productHandler := NewProductHandler(deps.ProductUC, deps.AdjustUC)
	products.Get("/", can(authz.ProductRead), productHandler.List)
	products.Post("/", can(authz.ProductCreate), productHandler.Create)
	products.Get("/:id", can(authz.ProductRead), productHandler.GetByID)
	products.Put("/:id", can(authz.ProductUpdate), productHandler.Update)
	products.Patch("/:id/status", can(authz.ProductDisable), productHandler.SetStatus)
	products.Post("/:id/adjustments", can(authz.ProductAdjust), productHandler.Adjust)

	// Suppliers
	suppliers := api.Group("/suppliers", authn)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", can(authz.SupplierRead), supplierHandler.List)
	suppliers.Post("/", can(authz.SupplierCreate), supplierHandler.Create)
	suppliers.Get("/:id", can(authz.SupplierRead), supplierHandler.GetByID)
	suppliers.Put("/:id", can(authz.SupplierUpdate), supplierHandler.Update)
	suppliers.Patch("/:id/status", can(authz.SupplierDisable), supplierHandler.SetStatus)

	// Clients
	clients := api.Group("/clients", authn)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", can(authz.ClientRead), clientHandler.List)
	clients.Post("/", can(authz.ClientCreate), clientHandler.Create)
	clients.Get("/:id", can(authz.ClientRead), clientHandler.GetByID)
	clients.Put("/:id", can(authz.ClientUpdate), clientHandler.Update)
	clients.Patch("/:id/status", can(authz.ClientDisable), clientHandler.SetStatus)

	// Purchases
	purchases := api.Group("/purchases", authn)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Get("/", can(authz.PurchaseRead), purchaseHandler.List)
	purchases.Post("/", can(authz.PurchaseCreate), purchaseHandler.Create)
	purchases.Get("/:id", can(authz.PurchaseRead), purchaseHandler.GetByID)
	purchases.Patch("/:id/status", can(authz.PurchaseTransition), purchaseHandler.Transition)

	// Sales
	sales := api.Group("/sales", authn)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	sales.Get("/", can(authz.SaleRead), saleHandler.List)
	sales.Post("/", can(authz.SaleCreate), saleHandler.Create)
	sales.Get("/:id", can(authz.SaleRead), saleHandler.GetByID)
	sales.Patch("/:id/status", can(authz.SaleTransition), saleHandler.Transition)
	if deps.ReceiptUC != nil {
		sales.Get("/:id/receipt", can(authz.SaleReceipt), saleHandler.Receipt)
	}

	// Users
	users := api.Group("/users", authn)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", can(authz.UserRead), userHandler.List)
	users.Post("/", can(authz.UserCreate), userHandler.Create)
	users.Get("/:id", can(authz.UserRead), userHandler.GetByID)
	users.Patch("/:id/role", can(authz.UserRole), userHandler.ChangeRole)
	users.Patch("/:id/status", can(authz.UserDisable), userHandler.SetStatus)

	// Activity log
	activityHandler := NewActivityHandler(deps.Audit)
	api.Get("/activity-logs", authn, can(authz.ActivityRead), activityHandler.List)
}
