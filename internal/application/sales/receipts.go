package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// Títulos de los documentos.
const (
	TitleInvoice = "FACTURE"
	TitleReceipt = "REÇU DE VENTE"
)

// CheckoutReceipt factura PDF de todas las líneas de un checkout.
func (uc *CheckoutUseCase) CheckoutReceipt(ctx context.Context, checkoutID string) (*dto.ExportFile, error) {
	if strings.TrimSpace(checkoutID) == "" {
		return nil, domain.ErrInvalidInput
	}
	records, err := uc.saleRepo.ListByCheckout(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	first := records[0].Sale
	receipt := ports.Receipt{
		StoreName: uc.store.Name,
		Title:     TitleInvoice,
		Number:    entity.TransactionNumber(checkoutID),
		Date:      first.CreatedAt,
		Seller:    first.SellerName,
		Currency:  uc.store.Currency,
		Total:     decimal.Zero,
	}
	for _, r := range records {
		receipt.Lines = append(receipt.Lines, ports.ReceiptLine{
			Name:      r.ProductName,
			Quantity:  r.Sale.Quantity,
			UnitPrice: r.Sale.UnitPrice(),
			Total:     r.Sale.TotalPrice,
		})
		receipt.Total = receipt.Total.Add(r.Sale.TotalPrice)
	}
	data, err := uc.receipts.RenderReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("facture_%s.pdf", receipt.Number),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// SaleReceipt recibo PDF de una sola venta.
func (uc *CheckoutUseCase) SaleReceipt(ctx context.Context, saleID string) (*dto.ExportFile, error) {
	rec, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	number := entity.TransactionNumber(rec.Sale.ID)
	data, err := uc.receipts.RenderReceipt(ctx, ports.Receipt{
		StoreName: uc.store.Name,
		Title:     TitleReceipt,
		Number:    number,
		Date:      rec.Sale.CreatedAt,
		Seller:    rec.Sale.SellerName,
		Currency:  uc.store.Currency,
		Lines: []ports.ReceiptLine{{
			Name:      rec.ProductName,
			Quantity:  rec.Sale.Quantity,
			UnitPrice: rec.Sale.UnitPrice(),
			Total:     rec.Sale.TotalPrice,
		}},
		Total: rec.Sale.TotalPrice,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("recu_%s.pdf", number),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
