package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Comercio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	"github.com/jhoicas/Comercio-api/pkg/config"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// txRunner une los dos puertos transaccionales; memory.Store y postgres.TxRunner implementan ambos.
type txRunner interface {
	inventory.TxRunner
	orders.TxRunner
}

// stores repositorios del driver elegido.
type stores struct {
	tx        txRunner
	products  repository.ProductRepository
	users     repository.UserRepository
	suppliers repository.SupplierRepository
	clients   repository.ClientRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	activity  repository.ActivityLogRepository
	close     func()
}

func openStores(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		st := memory.New()
		return &stores{
			tx:        st,
			products:  st.Products(),
			users:     st.Users(),
			suppliers: st.Suppliers(),
			clients:   st.Clients(),
			purchases: st.Purchases(),
			sales:     st.Sales(),
			activity:  st.ActivityLogs(),
			close:     func() {},
		}, nil
	}

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.ConnectionString(), log); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		users:     postgres.NewUserRepository(pool),
		suppliers: postgres.NewSupplierRepository(pool),
		clients:   postgres.NewClientRepository(pool),
		purchases: postgres.NewPurchaseRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		activity:  postgres.NewActivityLogRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	auditSvc := audit.NewService(st.activity, log)
	policy, err := authz.NewPolicy(cfg.RBAC.Overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("RBAC_OVERRIDES inválido")
	}
	gate := authz.NewGate(policy, auditSvc)

	ordersCfg := orders.Config{
		PurchaseAutoComplete: cfg.Orders.PurchaseAutoComplete,
		SaleAutoComplete:     cfg.Orders.SaleAutoComplete,
		PurchaseUpdateCost:   cfg.Orders.PurchaseUpdateCost,
		CancelPolicy:         cfg.Orders.CancelPolicy,
	}
	m := metrics.New()

	userUC := usecase.NewUserUseCase(st.users, auditSvc)
	purchaseUC := orders.NewPurchaseUseCase(st.tx, st.purchases, st.products, ordersCfg, auditSvc, m)
	saleUC := orders.NewSaleUseCase(st.tx, st.sales, st.products, ordersCfg, auditSvc, m)

	// PDF: comprobante de venta
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	receiptUC := orders.NewReceiptUseCase(saleUC, st.clients, pdfGenerator)

	authUC := auth.NewAuthUseCase(st.users, userUC, auditSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.AllowRegistration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Comercio API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  usecase.NewProductUseCase(st.products, auditSvc),
		AdjustUC:   inventory.NewAdjustQuantityUseCase(st.tx, auditSvc),
		SupplierUC: usecase.NewSupplierUseCase(st.suppliers, auditSvc),
		ClientUC:   usecase.NewClientUseCase(st.clients, auditSvc),
		UserUC:     userUC,
		PurchaseUC: purchaseUC,
		SaleUC:     saleUC,
		ReceiptUC:  receiptUC,
		Audit:      auditSvc,
		Gate:       gate,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
