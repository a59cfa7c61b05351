package controller

import (
	"errors"
	"log"

	"cadence-support/models"
	"cadence-support/socket"
	"cadence-support/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WebhookController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Hub    *socket.Hub
}

func NewWebhookController(db *gorm.DB, logger *log.Logger, hub *socket.Hub) *WebhookController {
	return &WebhookController{
		DB:     db,
		Logger: logger,
		Hub:    hub,
	}
}

type activityWebhookInput struct {
	LeadID  uint   `json:"lead_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=incoming mail message call note"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// HandleActivityWebhook records a lead activity reported by the main
// platform and pushes it to every connected dashboard client
func (wc *WebhookController) HandleActivityWebhook(c *fiber.Ctx) error {
	var input activityWebhookInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid activity payload", err)
	}

	var lead models.Lead
	if err := wc.DB.First(&lead, input.LeadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lead not found",
			})
		}
		wc.Logger.Printf("Error fetching lead %d: %v", input.LeadID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lead",
		})
	}

	activity := models.Activity{
		LeadID:  lead.ID,
		Name:    input.Name,
		Type:    input.Type,
		Status:  input.Status,
		Comment: input.Comment,
	}
	if err := wc.DB.Create(&activity).Error; err != nil {
		wc.Logger.Printf("Error creating activity for lead %d: %v", lead.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create activity",
		})
	}

	event := fiber.Map{
		"activity": activity,
		"lead": fiber.Map{
			"id":         lead.ID,
			"first_name": lead.FirstName,
			"last_name":  lead.LastName,
			"email":      lead.Email,
		},
	}
	wc.Hub.Broadcast("activity_created", event)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(activity))
}
