// Package printer renders an inventory summary as a printable PDF: header
// with customer and move details, a QR code linking back to the customer
// view, and a per-room item table with totals.
package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
)

// GenerateSummaryPDF creates the printable inventory summary. accessURL is
// the customer-facing link encoded into the QR code.
func GenerateSummaryPDF(summary *inventory.Summary, accessURL string) ([]byte, error) {
	inv := summary.Inventory

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Moving Inventory")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	writeHeaderLine(pdf, "Customer", strValue(inv.CustomerName))
	if inv.MoveDate != nil {
		writeHeaderLine(pdf, "Move Date", inv.MoveDate.Format("Jan 2, 2006"))
	}
	writeHeaderLine(pdf, "From", strValue(inv.FromAddress))
	writeHeaderLine(pdf, "To", strValue(inv.ToAddress))
	writeHeaderLine(pdf, "Status", inv.Status)

	// QR code top-right linking to the customer view
	qrPng, err := qrcode.Encode(accessURL, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("access_qr", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("access_qr", 165, 15, 30, 30, false, opts, 0, "")

	pdf.Ln(4)

	// Per-room tables
	for _, room := range summary.RoomSummaries {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s  (%d items, %.1f cu ft, %.0f lbs)",
			room.Name, room.ItemCount, room.CuFt, room.Weight))
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(80, 6, "Item", "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 6, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, "Cu Ft", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 6, "Weight", "1", 0, "R", true, 0, "")
		pdf.CellFormat(20, 6, "Flags", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, item := range room.Items {
			pdf.CellFormat(80, 6, item.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, item.TotalCuFt, "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, item.TotalWeight, "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, itemFlags(item), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	// Grand totals
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Totals: %d items, %.1f cu ft, %.0f lbs",
		summary.Totals.TotalItems, summary.Totals.TotalCuFt, summary.Totals.TotalWeight))
	pdf.Ln(10)

	if len(summary.SpecialtyItems) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, "Specialty Items")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, item := range summary.SpecialtyItems {
			pdf.Cell(0, 5, fmt.Sprintf("- %dx %s", item.Quantity, item.Name))
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeaderLine(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.Cell(0, 5, fmt.Sprintf("%s: %s", label, value))
	pdf.Ln(5)
}

// itemFlags abbreviates the boolean flags: S specialty, D disassembly,
// F fragile, H high-value.
func itemFlags(item models.RoomItem) string {
	flags := ""
	if item.IsSpecialtyItem {
		flags += "S"
	}
	if item.RequiresDisassembly {
		flags += "D"
	}
	if item.IsFragile {
		flags += "F"
	}
	if item.IsHighValue {
		flags += "H"
	}
	return flags
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
