package reportController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kirayo/internal/controllers/booking"
	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/shopspring/decimal"
)

var (
	ErrNotBookingParty    = errors.New("user is not a party to this booking")
	ErrReceiptUnavailable = errors.New("receipt is only available after delivery is confirmed")
	ErrUnknownFormat      = errors.New("unsupported export format")
	ErrUnknownReport      = errors.New("unsupported report type")
)

type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type ReportType string

const (
	ReportEarnings  ReportType = "earnings"
	ReportCompleted ReportType = "completed"
)

// ReportController builds earnings summaries, analytics and exportable
// report documents.
type ReportController struct {
	bookings repositories.BookingRepository
	items    repositories.RentalItemRepository
	users    repositories.UserRepository
	export   *services.ExportService
	log      logger.Logger
}

type ReportControllerInterface interface {
	GetEarningsSummary(ctx context.Context, user *models.User, from, to *time.Time) (*EarningsSummary, error)
	GetCompletedBookings(ctx context.Context, user *models.User, from, to *time.Time) ([]*models.Booking, error)
	ExportReport(ctx context.Context, user *models.User, from, to *time.Time, report ReportType, format ExportFormat) ([]byte, string, error)

	GetSystemOverview(ctx context.Context) (*SystemOverview, error)

	GetReceipt(ctx context.Context, user *models.User, bookingID int) (*models.BookingReceipt, error)
	ExportReceipt(ctx context.Context, user *models.User, bookingID int) ([]byte, error)
}

// EarningsSummary aggregates released payments for one user or, for
// admins, the whole platform.
type EarningsSummary struct {
	BookingCount  int             `json:"bookingCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalFees     decimal.Decimal `json:"totalFees"`
	NetEarnings   decimal.Decimal `json:"netEarnings"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	CurrencyLabel string          `json:"currency"`
}

// SystemOverview is the admin dashboard aggregate.
type SystemOverview struct {
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	PlatformRevenue  decimal.Decimal  `json:"platformRevenue"`
	ReleasedVolume   decimal.Decimal  `json:"releasedVolume"`
	CompletedCount   int              `json:"completedCount"`
}

func New(
	repos repositories.Repository,
	services services.Service,
) ReportControllerInterface {
	return &ReportController{
		bookings: repos.Booking,
		items:    repos.RentalItem,
		users:    repos.User,
		export:   services.Export,
		log:      logger.New("reportController"),
	}
}

// GetCompletedBookings returns released bookings scoped to the caller's
// role: owners see bookings of their items, admins see everything,
// renters see their own.
func (c *ReportController) GetCompletedBookings(ctx context.Context, user *models.User, from, to *time.Time) ([]*models.Booking, error) {
	if user.IsAdmin() {
		return c.bookings.GetCompleted(ctx, from, to)
	}

	filter := repositories.BookingFilter{
		PaymentStatus: models.PaymentCompleted,
		From:          from,
		To:            to,
	}
	if user.IsOwner() {
		return c.bookings.GetByOwner(ctx, user.ID, filter)
	}
	return c.bookings.GetByRenter(ctx, user.ID, filter)
}

func (c *ReportController) GetEarningsSummary(ctx context.Context, user *models.User, from, to *time.Time) (*EarningsSummary, error) {
	bookings, err := c.GetCompletedBookings(ctx, user, from, to)
	if err != nil {
		return nil, err
	}

	summary := &EarningsSummary{
		BookingCount:  len(bookings),
		TotalAmount:   decimal.Zero,
		TotalFees:     decimal.Zero,
		NetEarnings:   decimal.Zero,
		From:          from,
		To:            to,
		GeneratedAt:   time.Now(),
		CurrencyLabel: "USD",
	}
	for _, b := range bookings {
		summary.TotalAmount = summary.TotalAmount.Add(b.TotalAmount())
		summary.TotalFees = summary.TotalFees.Add(b.ServiceFee)
		summary.NetEarnings = summary.NetEarnings.Add(b.PaymentAmount)
	}

	return summary, nil
}

// ExportReport renders the selected report as CSV or PDF. The second
// return value is a suggested file name.
func (c *ReportController) ExportReport(ctx context.Context, user *models.User, from, to *time.Time, report ReportType, format ExportFormat) ([]byte, string, error) {
	log := c.log.Function("ExportReport")

	if format != FormatCSV && format != FormatPDF {
		return nil, "", ErrUnknownFormat
	}

	bookings, err := c.GetCompletedBookings(ctx, user, from, to)
	if err != nil {
		return nil, "", err
	}

	var table services.ReportTable
	switch report {
	case ReportEarnings:
		table = earningsTable(bookings)
	case ReportCompleted:
		table = completedTable(bookings)
	default:
		return nil, "", ErrUnknownReport
	}

	filename := fmt.Sprintf("%s_%s.%s", report, time.Now().Format("20060102"), format)
	if format == FormatCSV {
		data, err := c.export.CSV(table)
		if err != nil {
			return nil, "", log.Err("failed to render CSV report", err)
		}
		return data, filename, nil
	}

	data, err := c.export.PDF(table)
	if err != nil {
		return nil, "", log.Err("failed to render PDF report", err)
	}
	return data, filename, nil
}

func earningsTable(bookings []*models.Booking) services.ReportTable {
	table := services.ReportTable{
		Title:   "Earnings Report",
		Headers: []string{"Booking", "Item", "Renter", "Method", "Amount", "Fee", "Total", "Released"},
	}

	totalAmount := decimal.Zero
	totalFees := decimal.Zero
	for _, b := range bookings {
		receipt := b.Receipt()
		released := ""
		if receipt.ReleasedAt != nil {
			released = receipt.ReleasedAt.Format("2006-01-02")
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("#%d", b.ID),
			receipt.ItemName,
			receipt.RenterName,
			receipt.PaymentMethod,
			receipt.Amount.StringFixed(2),
			receipt.ServiceFee.StringFixed(2),
			receipt.Total.StringFixed(2),
			released,
		})
		totalAmount = totalAmount.Add(receipt.Amount)
		totalFees = totalFees.Add(receipt.ServiceFee)
	}
	table.Summary = []string{
		fmt.Sprintf("%d bookings", len(bookings)), "", "", "",
		totalAmount.StringFixed(2),
		totalFees.StringFixed(2),
		totalAmount.Add(totalFees).StringFixed(2),
		"",
	}
	return table
}

func completedTable(bookings []*models.Booking) services.ReportTable {
	table := services.ReportTable{
		Title:   "Completed Bookings",
		Headers: []string{"Booking", "Item", "Renter", "Owner", "Status", "Total", "Released"},
	}

	for _, b := range bookings {
		receipt := b.Receipt()
		released := ""
		if receipt.ReleasedAt != nil {
			released = receipt.ReleasedAt.Format("2006-01-02")
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("#%d", b.ID),
			receipt.ItemName,
			receipt.RenterName,
			receipt.OwnerName,
			b.Status,
			receipt.Total.StringFixed(2),
			released,
		})
	}
	table.Summary = []string{fmt.Sprintf("%d bookings", len(bookings)), "", "", "", "", "", ""}
	return table
}

// GetSystemOverview aggregates platform-wide booking and revenue
// numbers. Platform revenue is the sum of service fees on released
// payments.
func (c *ReportController) GetSystemOverview(ctx context.Context) (*SystemOverview, error) {
	byStatus, err := c.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	completed, err := c.bookings.GetCompleted(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	overview := &SystemOverview{
		BookingsByStatus: byStatus,
		PlatformRevenue:  decimal.Zero,
		ReleasedVolume:   decimal.Zero,
		CompletedCount:   len(completed),
	}
	for _, b := range completed {
		overview.PlatformRevenue = overview.PlatformRevenue.Add(b.ServiceFee)
		overview.ReleasedVolume = overview.ReleasedVolume.Add(b.TotalAmount())
	}

	return overview, nil
}

// GetReceipt returns the payment breakdown once the renter has
// confirmed delivery. Only booking parties and admins may see it.
func (c *ReportController) GetReceipt(ctx context.Context, user *models.User, bookingID int) (*models.BookingReceipt, error) {
	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bookingController.IsBookingParty(user, booking) {
		return nil, ErrNotBookingParty
	}
	if !booking.RenterConfirmed {
		return nil, ErrReceiptUnavailable
	}

	receipt := booking.Receipt()
	return &receipt, nil
}

func (c *ReportController) ExportReceipt(ctx context.Context, user *models.User, bookingID int) ([]byte, error) {
	receipt, err := c.GetReceipt(ctx, user, bookingID)
	if err != nil {
		return nil, err
	}
	return c.export.ReceiptPDF(*receipt)
}
