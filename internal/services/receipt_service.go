package services

import (
	"bytes"
	"fmt"
	"time"

	"balcao/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ReceiptService renders printable order receipts.
type ReceiptService interface {
	Render(order *models.Order) ([]byte, error)
}

type receiptService struct {
	shopName string
	loc      *time.Location
}

func NewReceiptService(shopName string, loc *time.Location) ReceiptService {
	return &receiptService{shopName: shopName, loc: loc}
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func (s *receiptService) Render(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(s.shopName))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	lines := []string{
		fmt.Sprintf("Pedido: %s", order.ID.String()[:8]),
		fmt.Sprintf("Data: %s", order.CreatedAt.In(s.loc).Format("02/01/2006 15:04")),
		fmt.Sprintf("Status: %s", order.Status.Label()),
	}
	if order.SalesType != nil {
		lines = append(lines, fmt.Sprintf("Tipo de venda: %s", order.SalesType.Name))
	}
	if order.CustomerName != nil {
		lines = append(lines, fmt.Sprintf("Cliente: %s", *order.CustomerName))
	}
	if order.ExternalOrderID != nil {
		lines = append(lines, fmt.Sprintf("Pedido externo: %s", *order.ExternalOrderID))
	}
	for _, line := range lines {
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	colWidths := []float64{64, 14, 25, 25}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Produto", "Qtd", "Unit.", "Total"} {
		pdf.CellFormat(colWidths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 9)
	for i := range order.Items {
		item := &order.Items[i]
		pdf.CellFormat(colWidths[0], 7, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, money(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, money(item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(3)

	labelWidth := colWidths[0] + colWidths[1] + colWidths[2]
	pdf.CellFormat(labelWidth, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 6, money(order.Subtotal()), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	if order.Discount.IsPositive() {
		pdf.CellFormat(labelWidth, 6, "Desconto:", "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 6, "- "+money(order.Discount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(labelWidth, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, money(order.Total), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	payment := order.PaymentLabel()
	if order.IsPaid() {
		payment += " (" + *order.PaymentMethod + ")"
	}
	pdf.Cell(0, 6, tr(payment))
	pdf.Ln(6)

	if order.Notes != nil {
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 4, tr("Obs.: "+*order.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}
	return buf.Bytes(), nil
}
