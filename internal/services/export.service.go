package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ReportTable is a generated report ready for export: a title, column
// headers and pre-formatted row values.
type ReportTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Summary []string
}

// ExportService renders reports and receipts into downloadable
// documents.
type ExportService struct {
	log logger.Logger
}

func NewExportService() *ExportService {
	return &ExportService{
		log: logger.New("exportService"),
	}
}

// CSV renders the table as a CSV document.
func (s *ExportService) CSV(table ReportTable) ([]byte, error) {
	log := s.log.Function("CSV")

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(table.Headers); err != nil {
		return nil, log.Err("failed to write csv header", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return nil, log.Err("failed to write csv row", err)
		}
	}
	if len(table.Summary) > 0 {
		if err := writer.Write(table.Summary); err != nil {
			return nil, log.Err("failed to write csv summary", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, log.Err("failed to flush csv", err)
	}

	return buf.Bytes(), nil
}

// PDF renders the table as a paginated A4 PDF document.
func (s *ExportService) PDF(table ReportTable) ([]byte, error) {
	log := s.log.Function("PDF")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, table.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Generated at "+time.Now().UTC().Format("2006-01-02 15:04 UTC"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	colWidth := usable / float64(len(table.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(table.Summary) > 0 {
		pdf.SetFont("Arial", "B", 8)
		for _, cell := range table.Summary {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, log.Err("failed to render pdf", err, "title", table.Title)
	}

	return buf.Bytes(), nil
}

// ReceiptPDF renders the payment receipt for a booking.
func (s *ExportService) ReceiptPDF(receipt models.BookingReceipt) ([]byte, error) {
	log := s.log.Function("ReceiptPDF")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Kirayo Rental Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking #%d", receipt.BookingID), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	writeRow("Item", receipt.ItemName)
	writeRow("Renter", receipt.RenterName)
	writeRow("Owner", receipt.OwnerName)
	writeRow("Payment Method", receipt.PaymentMethod)
	if receipt.ReleasedAt != nil {
		writeRow("Released At", receipt.ReleasedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(95, 9, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 9, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 8, "Rental amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, receipt.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(95, 8, "Service fee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, receipt.ServiceFee.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 8, "Total paid", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, receipt.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(95, 8, "Owner payout", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, receipt.OwnerNet.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Thank you for renting with Kirayo.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, log.Err("failed to render receipt pdf", err, "bookingID", receipt.BookingID)
	}

	return buf.Bytes(), nil
}
