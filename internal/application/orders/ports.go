package orders

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos de órdenes y productos.
// Si fn retorna error se hace rollback y ningún cambio es observable.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		supplierRepo repository.SupplierRepository,
		clientRepo repository.ClientRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// TransitionObserver recibe cada cambio de estado confirmado o fallido (métricas).
type TransitionObserver interface {
	ObserveTransition(kind string, from, to entity.OrderStatus, outcome string)
}

// ReceiptPDFGenerator genera el comprobante PDF de una venta completada.
type ReceiptPDFGenerator interface {
	GenerateSaleReceipt(
		ctx context.Context,
		sale *entity.Sale,
		items []*entity.SaleItem,
		products map[string]*entity.Product,
		client *entity.Client,
	) ([]byte, error)
}
