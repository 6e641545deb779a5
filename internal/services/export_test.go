package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"kirayo/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReportTable() ReportTable {
	return ReportTable{
		Title:   "Earnings Report",
		Headers: []string{"Booking", "Item", "Amount"},
		Rows: [][]string{
			{"1", "City Apartment", "150.00"},
			{"2", "Pickup Truck", "80.00"},
		},
		Summary: []string{"Total", "", "230.00"},
	}
}

func TestExportService_CSV(t *testing.T) {
	service := NewExportService()

	data, err := service.CSV(testReportTable())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Booking", "Item", "Amount"}, records[0])
	assert.Equal(t, []string{"2", "Pickup Truck", "80.00"}, records[2])
	assert.Equal(t, []string{"Total", "", "230.00"}, records[3])
}

func TestExportService_CSV_NoSummary(t *testing.T) {
	service := NewExportService()
	table := testReportTable()
	table.Summary = nil

	data, err := service.CSV(table)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExportService_PDF(t *testing.T) {
	service := NewExportService()

	data, err := service.PDF(testReportTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportService_ReceiptPDF(t *testing.T) {
	service := NewExportService()
	released := time.Now()

	data, err := service.ReceiptPDF(models.BookingReceipt{
		BookingID:     42,
		ItemName:      "City Apartment",
		RenterName:    "Renter One",
		OwnerName:     "Owner One",
		PaymentMethod: "EVC_PLUS",
		Amount:        decimal.NewFromInt(100),
		ServiceFee:    decimal.NewFromInt(5),
		Total:         decimal.NewFromInt(105),
		OwnerNet:      decimal.NewFromInt(100),
		ReleasedAt:    &released,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
