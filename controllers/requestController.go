package controllers

import (
	"requestlog-backend/database"
	"requestlog-backend/models"
	"requestlog-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// GetRequests lists the caller's logged requests, newest first. Data is
// stored already masked, so this view never exposes secrets; the opaque
// response envelope is omitted from the JSON shape by the model.
func GetRequests(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}

	var records []models.RequestRecord
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list requests")
	}
	return c.JSON(records)
}
