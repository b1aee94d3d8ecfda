package cart

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"farmhand/models"
	"farmhand/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func newestFirst(orders []models.Order) []models.Order {
	out := append(make([]models.Order, 0, len(orders)), orders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// PrintReceipt renders one of the caller's orders as a PDF with a QR code of
// the order id.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("id")
	order, found, err := h.Orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		http.Error(w, "Failed to load order", http.StatusBadGateway)
		return
	}
	if !found {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	pdf, err := RenderReceipt(order)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func RenderReceipt(order models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(order.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", time.UnixMilli(order.Date).UTC().Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Deliver to: %s", order.DeliveryAddress))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "B", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		pdf.CellFormat(80, 7, it.Product.Name, "", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d %s", it.Quantity, it.Product.Unit), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.Product.PricePerKg), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.TotalPrice()), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(135, 10, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", order.TotalPrice), "T", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
