package handlers

import (
	"kirayo/internal/app"
	reportController "kirayo/internal/controllers/report"
	"kirayo/internal/handlers/middleware"
	"kirayo/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	controller reportController.ReportControllerInterface
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	return &ReportHandler{
		controller: app.Controllers.Report,
		Handler: Handler{
			log:        logger.New("handlers").File("report_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	reports := h.router.Group("/reports", h.middleware.RequireAuth())
	reports.Get("/earnings", h.getEarnings)
	reports.Get("/completed", h.getCompleted)
	reports.Get("/export", h.export)
	reports.Get("/overview", h.middleware.RequireAdmin(), h.getOverview)

	receipt := h.router.Group("/receipt", h.middleware.RequireAuth())
	receipt.Get("/:bookingID", h.getReceipt)
	receipt.Get("/:bookingID/pdf", h.getReceiptPDF)
}

func (h *ReportHandler) getEarnings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	filter := parseBookingFilter(c)

	summary, err := h.controller.GetEarningsSummary(c.UserContext(), user, filter.From, filter.To)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"summary": summary})
}

func (h *ReportHandler) getCompleted(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	filter := parseBookingFilter(c)

	bookings, err := h.controller.GetCompletedBookings(c.UserContext(), user, filter.From, filter.To)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *ReportHandler) export(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("export")
	user := middleware.GetUser(c)
	filter := parseBookingFilter(c)

	report := reportController.ReportType(c.Query("type", string(reportController.ReportEarnings)))
	format := reportController.ExportFormat(c.Query("format", string(reportController.FormatPDF)))
	data, filename, err := h.controller.ExportReport(c.UserContext(), user, filter.From, filter.To, report, format)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Report exported", "userID", user.ID, "type", report, "format", format, "bytes", len(data))

	contentType := "application/pdf"
	if format == reportController.FormatCSV {
		contentType = "text/csv"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *ReportHandler) getOverview(c *fiber.Ctx) error {
	overview, err := h.controller.GetSystemOverview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"overview": overview})
}

func (h *ReportHandler) getReceipt(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("bookingID")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	receipt, err := h.controller.GetReceipt(c.UserContext(), user, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"receipt": receipt})
}

func (h *ReportHandler) getReceiptPDF(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookingID, err := c.ParamsInt("bookingID")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	data, err := h.controller.ExportReceipt(c.UserContext(), user, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipt.pdf"`)
	return c.Send(data)
}
