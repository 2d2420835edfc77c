package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

const receiptBucket = "receipts"

// ReceiptServiceInterface renders a PDF receipt for a sale and stores it in
// object storage.
type ReceiptServiceInterface interface {
	GenerateReceipt(ctx context.Context, saleID uuid.UUID) (string, error)
}

type receiptService struct {
	saleSvc  SaleServiceInterface
	minioSvc MinioService
}

func NewReceiptService(saleSvc SaleServiceInterface, minioSvc MinioService) ReceiptServiceInterface {
	return &receiptService{saleSvc: saleSvc, minioSvc: minioSvc}
}

// GenerateReceipt builds the PDF from the sale's snapshot lines, uploads it
// and returns a presigned download URL valid for 24 hours.
func (s *receiptService) GenerateReceipt(ctx context.Context, saleID uuid.UUID) (string, error) {
	sale, err := s.saleSvc.GetSaleByID(ctx, saleID)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Sale: %s", sale.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Table: %d", sale.TableID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", sale.Timestamp.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range sale.Items {
		pdf.CellFormat(90, 7, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.PriceAtSale), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", item.PriceAtSale*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f (%s)", sale.TotalAmount, sale.PaymentMethod))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render receipt PDF: %w", err)
	}

	if err := s.minioSvc.EnsureBucketExists(ctx, receiptBucket); err != nil {
		return "", err
	}
	objectName := fmt.Sprintf("receipt-%s.pdf", sale.ID)
	if err := s.minioSvc.UploadObject(ctx, receiptBucket, objectName, &buf, int64(buf.Len()), "application/pdf"); err != nil {
		return "", err
	}
	return s.minioSvc.GetPresignedURL(receiptBucket, objectName, 24*time.Hour)
}
