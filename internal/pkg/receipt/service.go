// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/order"
)

// Service generates pickup receipt PDFs
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	CustomerName  string
	Order         *order.Order
	Store         StoreInfo
}

// StoreInfo represents the pickup location shown on the receipt
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Generate renders a PDF receipt for an order
func (s *Service) Generate(ord *order.Order, customerName string) (*bytes.Buffer, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", ord.OrderNumber),
		IssuedAt:      time.Now().UTC().Format("January 2, 2006"),
		CustomerName:  customerName,
		Order:         ord,
		Store: StoreInfo{
			Name:    s.config.App.StoreName,
			Address: s.config.App.StoreAddress,
			Phone:   s.config.App.StorePhone,
			Email:   s.config.App.StoreEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 24px; color: #222; }
        .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
        .store-name { font-size: 22px; font-weight: bold; }
        .meta { font-size: 12px; color: #555; }
        table { width: 100%; border-collapse: collapse; margin-top: 16px; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; font-size: 13px; }
        th { background: #f5f5f5; }
        .amount { text-align: right; }
        .totals { margin-top: 16px; width: 40%; margin-left: auto; }
        .totals td { border: none; padding: 4px 8px; }
        .grand-total { font-weight: bold; border-top: 2px solid #222; }
        .pickup { margin-top: 24px; padding: 12px; background: #f0f7f0; font-size: 13px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="store-name">{{.Store.Name}}</div>
            <div class="meta">{{.Store.Address}}<br>{{.Store.Phone}} {{.Store.Email}}</div>
        </div>
        <div class="meta">
            Receipt {{.ReceiptNumber}}<br>
            Order {{.Order.OrderNumber}}<br>
            Issued {{.IssuedAt}}<br>
            Customer: {{.CustomerName}}
        </div>
    </div>

    <table>
        <tr><th>Item</th><th>Unit</th><th>Qty</th><th class="amount">Unit price</th><th class="amount">Total</th></tr>
        {{range .Order.Items}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Unit}}</td>
            <td>{{.Quantity}}</td>
            <td class="amount">{{.UnitPrice}}</td>
            <td class="amount">{{.TotalPrice}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="amount">{{.Order.SubtotalAmount}}</td></tr>
        <tr><td>Tax</td><td class="amount">{{.Order.TaxAmount}}</td></tr>
        <tr class="grand-total"><td>Total</td><td class="amount">{{.Order.TotalAmount}}</td></tr>
    </table>

    <div class="pickup">
        Pickup: {{.Order.PickupDate}}, {{.Order.PickupTimeSlot}} slot.
        {{if .Order.Notes}}Notes: {{.Order.Notes}}{{end}}
    </div>
</body>
</html>
`
