package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta. Solo ventas Completed tienen comprobante.
type ReceiptUseCase struct {
	sales      *SaleUseCase
	clientRepo repository.ClientRepository
	generator  ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales *SaleUseCase, clientRepo repository.ClientRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, clientRepo: clientRepo, generator: generator}
}

// SaleReceipt devuelve (pdfBytes, filename, nil), ErrNotFound si la venta no existe
// o ErrInvalidInput si la venta no está completada.
func (uc *ReceiptUseCase) SaleReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, items, products, err := uc.sales.load(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale.Status != entity.OrderStatusCompleted {
		return nil, "", fmt.Errorf("%w: la venta está en estado %s; solo ventas completadas tienen comprobante",
			domain.ErrInvalidInput, sale.Status)
	}
	var client *entity.Client
	if sale.ClientID != "" {
		client, err = uc.clientRepo.GetByID(ctx, sale.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
		}
	}
	pdf, err := uc.generator.GenerateSaleReceipt(ctx, sale, items, products, client)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", shortID(sale.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
