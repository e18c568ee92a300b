package controllers

import (
	"time"

	"requestlog-backend/database"
	"requestlog-backend/middlewares"
	"requestlog-backend/models"
	"requestlog-backend/requestlog"
	"requestlog-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CreatePaymentDTO is the payload for POST /payment.
type CreatePaymentDTO struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"required,len=3"`
	Method    string  `json:"method" validate:"required"`
	Reference string  `json:"reference"`
	Note      string  `json:"note"`
}

// UpdatePaymentDTO carries optional fields for PUT /payment/:id.
type UpdatePaymentDTO struct {
	Amount    *float64 `json:"amount" validate:"omitempty,gt=0"`
	Reference *string  `json:"reference"`
	Note      *string  `json:"note"`
}

// CreatePayment executes a payment. Duplicate submissions with the same
// Idempotency-Key never reach this handler twice; the requestlog layer
// replays the first response.
func CreatePayment(c *fiber.Ctx) error {
	var dto CreatePaymentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
	}

	db, err := database.GetRequestDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	payment := models.Payment{
		UserID:    userID,
		Amount:    utils.Round2(dto.Amount),
		Currency:  dto.Currency,
		Method:    dto.Method,
		Reference: dto.Reference,
		Note:      dto.Note,
		PaidAt:    time.Now().UTC(),
	}
	if err := db.Create(&payment).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create payment")
	}

	requestlog.TagResource(c, models.ResourcePayment, payment.Id)

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetPayments lists the caller's payments, newest first.
func GetPayments(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var payments []models.Payment
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list payments")
	}
	return c.JSON(payments)
}

// UpdatePayment patches reference/note/amount on an existing payment.
func UpdatePayment(c *fiber.Ctx) error {
	var dto UpdatePaymentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	userID, _ := c.Locals("userID").(string)

	db, err := database.GetRequestDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var payment models.Payment
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&payment).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "payment not found")
	}

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) > 0 {
		if err := db.Model(&payment).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update payment")
		}
	}

	requestlog.TagResource(c, models.ResourcePayment, payment.Id)

	return c.JSON(payment)
}
