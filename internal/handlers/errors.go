package handlers

import (
	"errors"

	adminController "kirayo/internal/controllers/admin"
	authController "kirayo/internal/controllers/auth"
	bookingController "kirayo/internal/controllers/booking"
	categoryController "kirayo/internal/controllers/category"
	complaintController "kirayo/internal/controllers/complaint"
	notificationController "kirayo/internal/controllers/notification"
	ownerController "kirayo/internal/controllers/owner"
	paymentController "kirayo/internal/controllers/payment"
	rentalController "kirayo/internal/controllers/rental"
	reportController "kirayo/internal/controllers/report"
	"kirayo/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var forbiddenErrors = []error{
	authController.ErrAccountInactive,
	bookingController.ErrNotBookingRenter,
	bookingController.ErrNotItemOwner,
	bookingController.ErrNotBookingParty,
	paymentController.ErrNotBookingParty,
	rentalController.ErrNotItemOwner,
	complaintController.ErrNotBookingParty,
	complaintController.ErrNotComplainant,
	notificationController.ErrNotNotificationOwner,
	reportController.ErrNotBookingParty,
	adminController.ErrSelfDemotion,
}

var conflictErrors = []error{
	models.ErrStaleBookingVersion,
	models.ErrAlreadyConfirmed,
	bookingController.ErrDuplicateBooking,
	authController.ErrUsernameTaken,
	authController.ErrEmailTaken,
	adminController.ErrUsernameTaken,
	adminController.ErrEmailTaken,
	categoryController.ErrCategoryNameTaken,
	complaintController.ErrComplaintPending,
	ownerController.ErrRequestPending,
	rentalController.ErrItemOccupied,
	adminController.ErrUserHasBooking,
}

// respondError maps controller errors onto HTTP responses. Anything
// not recognized as a domain error is treated as an internal failure.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}

	if errors.Is(err, authController.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	for _, target := range forbiddenErrors {
		if errors.Is(err, target) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) || isDomainError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

var badRequestErrors = []error{
	models.ErrPaymentNotPending,
	models.ErrPaymentNotHeld,
	models.ErrBookingNotPending,
	models.ErrBookingNotAccepted,
	models.ErrConfirmationCode,
	models.ErrConfirmationExpired,
	models.ErrOwnerConfirmTooEarly,
	models.ErrUnsupportedPayMethod,
	models.ErrInvalidPaymentAccount,
	models.ErrDynamicValue,
	bookingController.ErrItemUnavailable,
	bookingController.ErrContractRequired,
	bookingController.ErrInvalidAmount,
	paymentController.ErrRejectionReason,
	rentalController.ErrUnknownField,
	rentalController.ErrCategoryNeeded,
	ownerController.ErrAlreadyOwner,
	ownerController.ErrRequestDecided,
	ownerController.ErrRejectionRequired,
	complaintController.ErrComplaintDecided,
	complaintController.ErrSelfComplaint,
	complaintController.ErrRestrictionMissing,
	adminController.ErrUnknownRole,
	reportController.ErrReceiptUnavailable,
	reportController.ErrUnknownFormat,
	reportController.ErrUnknownReport,
}

func isDomainError(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
