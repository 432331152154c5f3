package postgres_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comercio-api/pkg/config"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// ────────────────────────────────────────────────────────────────
// Contenedor compartido
// ────────────────────────────────────────────────────────────────

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("comercio_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "levantar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn, logger.Nop()))
	// Idempotente: una segunda corrida no encuentra cambios.
	require.NoError(t, postgres.Migrate(dsn, logger.Nop()))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(sku, price string, qty int) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID: uuid.NewString(), SKU: sku, Name: "Producto " + sku,
		Price: dec(price), Cost: dec("0"), Quantity: qty, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestPostgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)

	// ────────────────────────────────────────────────────────────────
	// Productos
	// ────────────────────────────────────────────────────────────────

	t.Run("product_sku_unico_sin_mayusculas", func(t *testing.T) {
		require.NoError(t, products.Create(ctx, newProduct("ABC-1", "10", 0)))
		err := products.Create(ctx, newProduct("abc-1", "10", 0))
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		// Sin SKU no colisionan entre sí.
		require.NoError(t, products.Create(ctx, newProduct("", "1", 0)))
		require.NoError(t, products.Create(ctx, newProduct("", "1", 0)))

		got, err := products.GetBySKU(ctx, "Abc-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ABC-1", got.SKU)
	})

	t.Run("product_inexistente_devuelve_nil", func(t *testing.T) {
		got, err := products.GetByID(ctx, "no-existe")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("adjust_quantity_guardado", func(t *testing.T) {
		p := newProduct("ADJ-1", "5", 3)
		require.NoError(t, products.Create(ctx, p))

		qty, err := products.AdjustQuantity(ctx, p.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 7, qty)

		_, err = products.AdjustQuantity(ctx, p.ID, -8)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		_, err = products.AdjustQuantity(ctx, "no-existe", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = products.AdjustQuantity(ctx, p.ID, math.MaxInt32)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "integer out of range se traduce a validación")

		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Quantity)
	})

	t.Run("adjust_quantity_concurrente_nunca_negativo", func(t *testing.T) {
		p := newProduct("CONC-1", "5", 10)
		require.NoError(t, products.Create(ctx, p))

		var (
			wg sync.WaitGroup
			mu sync.Mutex
			ok int
		)
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := products.AdjustQuantity(ctx, p.ID, -1); err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, ok)
		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("product_list_filtra_y_cuenta", func(t *testing.T) {
		p := newProduct("LIST-XYZ", "5", 1)
		require.NoError(t, products.Create(ctx, p))
		require.NoError(t, products.SetActive(ctx, p.ID, false))

		list, total, err := products.List(ctx, repository.ProductFilter{Query: "list-xyz", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, list)

		list, total, err = products.List(ctx, repository.ProductFilter{Query: "list-xyz", IncludeInactive: true, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.False(t, list[0].Active)
	})

	// ────────────────────────────────────────────────────────────────
	// Usuarios, proveedores y clientes
	// ────────────────────────────────────────────────────────────────

	t.Run("user_unicidad", func(t *testing.T) {
		users := postgres.NewUserRepository(pool)
		now := time.Now().UTC()
		u := &entity.User{ID: uuid.NewString(), Username: "ana", Email: "ana@x.com", PasswordHash: "h",
			Role: entity.RoleSeller, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, users.Create(ctx, u))

		dupEmail := *u
		dupEmail.ID, dupEmail.Username, dupEmail.Email = uuid.NewString(), "otra", "ANA@x.com"
		assert.ErrorIs(t, users.Create(ctx, &dupEmail), domain.ErrEmailAlreadyExists)

		dupName := *u
		dupName.ID, dupName.Username, dupName.Email = uuid.NewString(), "ANA", "otra@x.com"
		assert.ErrorIs(t, users.Create(ctx, &dupName), domain.ErrDuplicate)

		got, err := users.GetByUsername(ctx, "Ana")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entity.RoleSeller, got.Role)

		u.Role = entity.Role("root")
		assert.Error(t, users.Update(ctx, u), "el CHECK de rol rechaza valores fuera del catálogo")
	})

	t.Run("supplier_y_client_opcionales_unicos", func(t *testing.T) {
		suppliers := postgres.NewSupplierRepository(pool)
		clients := postgres.NewClientRepository(pool)

		require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: uuid.NewString(), Name: "Acme", Active: true}))
		require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: uuid.NewString(), Name: "Beta", Active: true}))
		assert.ErrorIs(t, suppliers.Create(ctx, &entity.Supplier{ID: uuid.NewString(), Name: "ACME"}), domain.ErrDuplicate)

		list, total, err := suppliers.List(ctx, "acm", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "", list[0].Email)

		require.NoError(t, clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Juan", Document: "123", Active: true}))
		require.NoError(t, clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Sin doc", Active: true}))
		require.NoError(t, clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Sin doc 2", Active: true}))
		assert.ErrorIs(t, clients.Create(ctx, &entity.Client{ID: uuid.NewString(), Name: "Otro", Document: "123"}), domain.ErrDuplicate)
	})

	// ────────────────────────────────────────────────────────────────
	// Órdenes con TxRunner
	// ────────────────────────────────────────────────────────────────

	t.Run("orders_flujo_completo", func(t *testing.T) {
		tx := postgres.NewTxRunner(pool)
		logs := postgres.NewActivityLogRepository(pool)
		auditSvc := audit.NewService(logs, logger.Nop())
		cfg := orders.DefaultConfig()
		purchases := orders.NewPurchaseUseCase(tx, postgres.NewPurchaseRepository(pool), products, cfg, auditSvc, nil)
		sales := orders.NewSaleUseCase(tx, postgres.NewSaleRepository(pool), products, cfg, auditSvc, nil)
		actor := &authz.Identity{UserID: uuid.NewString(), Username: "gerente", Role: entity.RoleManager}

		widget := newProduct("WID-1", "10", 100)
		require.NoError(t, products.Create(ctx, widget))
		supplier := &entity.Supplier{ID: uuid.NewString(), Name: "Proveedor Orden", Active: true}
		require.NoError(t, postgres.NewSupplierRepository(pool).Create(ctx, supplier))

		cost := dec("4")
		pur, err := purchases.Create(ctx, actor, dto.CreatePurchaseRequest{
			SupplierID: supplier.ID,
			Items:      []dto.PurchaseItemRequest{{ProductID: widget.ID, Quantidade: 10, PrecoCustoUnitario: &cost}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Completed", pur.Status)
		assert.Equal(t, "40.00", pur.Total.StringFixed(2))

		sale, err := sales.Create(ctx, actor, dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductID: widget.ID, Quantidade: 3}},
		})
		require.NoError(t, err)
		_, err = sales.Transition(ctx, actor, sale.ID, dto.TransitionRequest{Status: "Completed"})
		require.NoError(t, err)

		got, err := products.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.Equal(t, 107, got.Quantity)

		// Venta que excede la existencia: nada se escribe.
		big, err := sales.Create(ctx, actor, dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductID: widget.ID, Quantidade: 500}},
		})
		require.NoError(t, err)
		_, err = sales.Transition(ctx, actor, big.ID, dto.TransitionRequest{Status: "Completed"})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		still, err := sales.Get(ctx, big.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pending", still.Status)

		_, err = purchases.Transition(ctx, actor, pur.ID, dto.TransitionRequest{Status: "Cancelled"})
		require.NoError(t, err)
		got, err = products.GetByID(ctx, widget.ID)
		require.NoError(t, err)
		assert.Equal(t, 97, got.Quantity)

		entries, total, err := logs.List(ctx, repository.ActivityLogFilter{ActorID: actor.UserID, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, total, len(entries))
		require.NotEmpty(t, entries)
		assert.Equal(t, entity.ActionCancel, entries[0].Action, "la más reciente primero")
	})

	t.Run("activity_log_solo_insercion", func(t *testing.T) {
		_, err := pool.Exec(ctx, `DELETE FROM activity_logs`)
		assert.Error(t, err)
		_, err = pool.Exec(ctx, `UPDATE activity_logs SET detail = 'x'`)
		assert.Error(t, err)
	})
}
