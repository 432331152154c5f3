package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type stubReceipt struct{}

func (stubReceipt) GenerateSaleReceipt(_ context.Context, _ *entity.Sale, _ []*entity.SaleItem, _ map[string]*entity.Product, _ *entity.Client) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type apiHarness struct {
	t      *testing.T
	app    *fiber.App
	tokens map[string]string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	store := memory.New()
	auditSvc := audit.NewService(store.ActivityLogs(), logger.Nop())
	gate := authz.NewGate(authz.DefaultPolicy(), auditSvc)
	cfg := orders.DefaultConfig()

	userUC := usecase.NewUserUseCase(store.Users(), auditSvc).WithHashCost(bcrypt.MinCost)
	saleUC := orders.NewSaleUseCase(store, store.Sales(), store.Products(), cfg, auditSvc, nil)
	deps := apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store.Users(), userUC, auditSvc, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, true),
		ProductUC:  usecase.NewProductUseCase(store.Products(), auditSvc),
		AdjustUC:   inventory.NewAdjustQuantityUseCase(store, auditSvc),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers(), auditSvc),
		ClientUC:   usecase.NewClientUseCase(store.Clients(), auditSvc),
		UserUC:     userUC,
		PurchaseUC: orders.NewPurchaseUseCase(store, store.Purchases(), store.Products(), cfg, auditSvc, nil),
		SaleUC:     saleUC,
		ReceiptUC:  orders.NewReceiptUseCase(saleUC, store.Clients(), stubReceipt{}),
		Audit:      auditSvc,
		Gate:       gate,
		JWTSecret:  testJWTSecret,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)

	h := &apiHarness{t: t, app: app, tokens: map[string]string{}}
	for _, role := range []string{"admin", "manager", "seller"} {
		_, err := userUC.CreateUser(context.Background(), dto.CreateUserRequest{
			Username: role + "1",
			Email:    role + "@comercio.test",
			Password: "secreto123",
			Role:     role,
		})
		require.NoError(t, err)
		h.tokens[role] = h.login(role+"1", "secreto123")
	}
	return h
}

// call ejecuta la petición con el token del rol indicado ("" = sin token) y decodifica out si no es nil.
func (h *apiHarness) call(method, path, role string, body any, out any) int {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+h.tokens[role])
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (h *apiHarness) login(login, password string) string {
	h.t.Helper()
	var out dto.LoginResponse
	status := h.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: login, Password: password}, &out)
	require.Equal(h.t, http.StatusOK, status)
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

func (h *apiHarness) product(name, price string, qty int) dto.ProductResponse {
	h.t.Helper()
	var out dto.ProductResponse
	status := h.call(http.MethodPost, "/api/products", "admin", map[string]any{
		"name": name, "price": price, "cost": "5.00", "quantity": qty,
	}, &out)
	require.Equal(h.t, http.StatusCreated, status)
	return out
}

func (h *apiHarness) quantity(id string) int {
	h.t.Helper()
	var out dto.ProductResponse
	require.Equal(h.t, http.StatusOK, h.call(http.MethodGet, "/api/products/"+id, "seller", nil, &out))
	return out.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinTokenEnRutaMutante_Retorna401(t *testing.T) {
	h := newAPIHarness(t)
	var out dto.ErrorResponse
	status := h.call(http.MethodPost, "/api/products", "", map[string]any{"name": "X", "price": "1"}, &out)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", out.Code)
}

func TestRouter_LoginIncorrecto_Retorna401(t *testing.T) {
	h := newAPIHarness(t)
	var out dto.ErrorResponse
	status := h.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "admin1", Password: "otra-clave"}, &out)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", out.Code)
}

func TestRouter_LoginSinCampos_Retorna400(t *testing.T) {
	h := newAPIHarness(t)
	status := h.call(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "admin1"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_RegistroCreaSeller(t *testing.T) {
	h := newAPIHarness(t)
	var user dto.UserResponse
	status := h.call(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "nuevo", Email: "nuevo@comercio.test", Password: "secreto123",
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "seller", user.Role)

	status = h.call(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "otro", Email: "NUEVO@comercio.test", Password: "secreto123",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestRouter_Me(t *testing.T) {
	h := newAPIHarness(t)
	var me dto.MeResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/auth/me", "manager", nil, &me))
	assert.Equal(t, "manager1", me.Username)
	assert.Equal(t, "manager", me.Role)

	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/api/auth/me", "", nil, nil))
}

func TestRouter_SellerNoCreaCompras_Retorna403YQuedaAuditado(t *testing.T) {
	h := newAPIHarness(t)
	var out dto.ErrorResponse
	status := h.call(http.MethodPost, "/api/purchases", "seller", dto.CreatePurchaseRequest{}, &out)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out.Code)

	var logs dto.ActivityLogListResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/activity-logs?action=ACCESS_DENIED", "admin", nil, &logs))
	require.NotEmpty(t, logs.Items)
	assert.Equal(t, "seller1", logs.Items[0].ActorUsername)
	assert.Equal(t, string(authz.PurchaseCreate), logs.Items[0].EntityID)
	assert.Equal(t, "route", logs.Items[0].EntityType)
}

func TestRouter_BitacoraSoloAdmin(t *testing.T) {
	h := newAPIHarness(t)
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, "/api/activity-logs", "manager", nil, nil))
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, "/api/activity-logs", "seller", nil, nil))
	assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/activity-logs", "admin", nil, nil))
}

func TestRouter_GestionDeUsuariosSoloAdmin(t *testing.T) {
	h := newAPIHarness(t)
	body := dto.CreateUserRequest{Username: "caja2", Email: "caja2@comercio.test", Password: "secreto123", Role: "seller"}
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodPost, "/api/users", "manager", body, nil))

	var created dto.UserResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/users", "admin", body, &created))

	var changed dto.UserResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodPatch, "/api/users/"+created.ID+"/role", "admin",
		dto.ChangeRoleRequest{Role: "manager"}, &changed))
	assert.Equal(t, "manager", changed.Role)

	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPatch, "/api/users/"+created.ID+"/role", "admin",
		dto.ChangeRoleRequest{Role: "owner"}, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Productos(t *testing.T) {
	h := newAPIHarness(t)
	p := h.product("Widget", "10.00", 100)
	assert.Equal(t, 100, p.Quantity)

	assert.Equal(t, http.StatusForbidden, h.call(http.MethodPost, "/api/products", "seller",
		map[string]any{"name": "Otro", "price": "1"}, nil))
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPost, "/api/products", "admin",
		map[string]any{"name": "", "price": "1"}, nil))
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/api/products/no-existe", "seller", nil, nil))

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/products?q=widg", "seller", nil, &list))
	assert.Equal(t, 1, list.Page.Total)

	// ajuste manual solo admin, nunca por debajo de cero
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodPost, "/api/products/"+p.ID+"/adjustments", "manager",
		dto.AdjustQuantityRequest{Delta: -1, Reason: "merma"}, nil))
	var out dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPost, "/api/products/"+p.ID+"/adjustments", "admin",
		dto.AdjustQuantityRequest{Delta: -101, Reason: "merma"}, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	var adj dto.StockAdjustmentResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodPost, "/api/products/"+p.ID+"/adjustments", "admin",
		dto.AdjustQuantityRequest{Delta: -1, Reason: "merma"}, &adj))
	assert.Equal(t, 99, adj.Quantity)

	// fuera del rango INTEGER: 400, no 500 ni wrap
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPost, "/api/products/"+p.ID+"/adjustments", "admin",
		dto.AdjustQuantityRequest{Delta: 1 << 40, Reason: "carga"}, &out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, 99, h.quantity(p.ID))
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPost, "/api/products", "admin",
		map[string]any{"name": "Fino", "price": "4.12345"}, nil))
}

func TestRouter_CuerpoInvalido_Retorna400(t *testing.T) {
	h := newAPIHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.tokens["admin"])
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras y ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoCompraYVenta(t *testing.T) {
	h := newAPIHarness(t)
	p := h.product("Widget", "10.00", 100)

	var supplier dto.SupplierResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/suppliers", "manager",
		dto.SupplierRequest{Name: "Distribuidora Norte"}, &supplier))

	// compra: se completa al crearse y suma existencias
	var purchase dto.PurchaseResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/purchases", "manager", dto.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []dto.PurchaseItemRequest{{ProductID: p.ID, Quantidade: 10}},
	}, &purchase))
	assert.Equal(t, "Completed", purchase.Status)
	assert.Equal(t, 110, h.quantity(p.ID))

	// venta: queda pendiente hasta completarse
	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/sales", "seller", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantidade: 3}},
	}, &sale))
	assert.Equal(t, "Pending", sale.Status)
	assert.True(t, sale.Total.Equal(dec("30")), "total=%s", sale.Total)
	assert.Equal(t, 110, h.quantity(p.ID))

	// el comprobante solo existe para ventas completadas
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", "seller", nil, nil))

	require.Equal(t, http.StatusOK, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "completed"}, &sale))
	assert.Equal(t, "Completed", sale.Status)
	assert.Equal(t, 107, h.quantity(p.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+h.tokens["seller"])
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	// completar de nuevo es una transición inválida
	var out dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "Completed"}, &out))
	assert.Equal(t, "INVALID_TRANSITION", out.Code)

	// cancelar una venta completada devuelve el stock una sola vez
	require.Equal(t, http.StatusOK, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "Cancelled"}, nil))
	assert.Equal(t, 110, h.quantity(p.ID))
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "Cancelled"}, nil))
	assert.Equal(t, 110, h.quantity(p.ID))

	var sales dto.SaleListResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/sales?status=Cancelled", "seller", nil, &sales))
	assert.Equal(t, 1, sales.Page.Total)
}

func TestRouter_VentaSinStock_Retorna409SinCambios(t *testing.T) {
	h := newAPIHarness(t)
	p := h.product("Widget", "10.00", 5)

	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/sales", "seller", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantidade: 6}},
	}, &sale))

	var out dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "Completed"}, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, 5, h.quantity(p.ID))

	var got dto.SaleResponse
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/api/sales/"+sale.ID, "seller", nil, &got))
	assert.Equal(t, "Pending", got.Status)
}

func TestRouter_OrdenesInexistentesYValidacion(t *testing.T) {
	h := newAPIHarness(t)
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/api/sales/no-existe", "seller", nil, nil))
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/api/purchases/no-existe", "manager", nil, nil))
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodPatch, "/api/sales/no-existe/status", "seller",
		dto.TransitionRequest{Status: "Completed"}, nil))

	// producto inexistente en la línea
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodPost, "/api/sales", "seller", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "no-existe", Quantidade: 1}},
	}, nil))
	// sin líneas
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPost, "/api/sales", "seller", dto.CreateSaleRequest{}, nil))

	p := h.product("Widget", "10.00", 5)
	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/sales", "seller", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantidade: 1}},
	}, &sale))
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPatch, "/api/sales/"+sale.ID+"/status", "seller",
		dto.TransitionRequest{Status: "Archived"}, nil))
}

func TestRouter_RutaInexistente_Retorna404(t *testing.T) {
	h := newAPIHarness(t)
	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/nada", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
