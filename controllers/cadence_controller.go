package controller

import (
	"context"
	"errors"
	"log"

	"cadence-support/models"
	"cadence-support/stats"
	"cadence-support/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatsProvider is the statistics surface the cadence endpoints call into
type StatsProvider interface {
	CadenceStatistics(ctx context.Context, cadenceID uint) (*stats.Report, error)
	NodeStats(ctx context.Context, nodeID uint) (*stats.NodeActivity, error)
}

type CadenceController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Stats  StatsProvider
}

func NewCadenceController(db *gorm.DB, logger *log.Logger, provider StatsProvider) *CadenceController {
	return &CadenceController{
		DB:     db,
		Logger: logger,
		Stats:  provider,
	}
}

// GetCadences lists cadences for the support panel, filterable by ownership
// type, status and owner
func (cc *CadenceController) GetCadences(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Cadence{})

	// Company-scoped listing covers all three ownership types
	if companyID := utils.ParseUint(c.Params("id")); companyID != 0 {
		query = query.Where(
			"company_id = ? OR user_id IN (?) OR sub_department_id IN (?)",
			companyID,
			cc.DB.Model(&models.User{}).Select("id").Where("company_id = ?", companyID),
			cc.DB.Model(&models.SubDepartment{}).Select("id").Where("company_id = ?", companyID),
		)
	}

	switch cadenceType := c.Query("type"); cadenceType {
	case models.CadenceTypePersonal:
		query = query.Where("type = ?", cadenceType)
		if userID := utils.ParseUint(c.Query("user_id")); userID != 0 {
			query = query.Where("user_id = ?", userID)
		}
	case models.CadenceTypeTeam:
		query = query.Where("type = ?", cadenceType)
		if sdID := utils.ParseUint(c.Query("sd_id")); sdID != 0 {
			query = query.Where("sub_department_id = ?", sdID)
		}
	case models.CadenceTypeCompany:
		query = query.Where("type = ?", cadenceType)
		if companyID := utils.ParseUint(c.Query("company_id")); companyID != 0 {
			query = query.Where("company_id = ?", companyID)
		}
	case "":
		// no type filter, browse everything
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown cadence type",
		})
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	page := int(utils.ParseUint(c.Query("page")))
	if page < 1 {
		page = 1
	}
	limit := int(utils.ParseUint(c.Query("limit")))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		cc.Logger.Printf("Error counting cadences: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadences",
		})
	}

	var cadences []models.Cadence
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cadences).Error; err != nil {
		cc.Logger.Printf("Error fetching cadences: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadences",
		})
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  cadences,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetCadence returns one cadence with its steps in pipeline order
func (cc *CadenceController) GetCadence(c *fiber.Ctx) error {
	cadenceID := utils.ParseUint(c.Params("id"))
	if cadenceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cadence id",
		})
	}

	var cadence models.Cadence
	err := cc.DB.
		Preload("Nodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Preload("User").
		First(&cadence, cadenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cadence not found",
		})
	}
	if err != nil {
		cc.Logger.Printf("Error fetching cadence %d: %v", cadenceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadence",
		})
	}

	return c.JSON(utils.SuccessResponse(cadence))
}

// GetCadenceStatistics returns the full per-node statistics report
func (cc *CadenceController) GetCadenceStatistics(c *fiber.Ctx) error {
	cadenceID := utils.ParseUint(c.Params("id"))

	report, err := cc.Stats.CadenceStatistics(c.UserContext(), cadenceID)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid cadence id",
			})
		case errors.Is(err, stats.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cadence not found",
			})
		default:
			cc.Logger.Printf("Error building statistics for cadence %d: %v", cadenceID, err)
			sentry.CaptureException(err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch cadence statistics",
			})
		}
	}

	return c.JSON(utils.SuccessResponse(report))
}

// GetNodeStats returns the per-assignee drill-down for one cadence step
func (cc *CadenceController) GetNodeStats(c *fiber.Ctx) error {
	nodeID := utils.ParseUint(c.Params("id"))

	activity, err := cc.Stats.NodeStats(c.UserContext(), nodeID)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid node id",
			})
		default:
			cc.Logger.Printf("Error building node stats for node %d: %v", nodeID, err)
			sentry.CaptureException(err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch node statistics",
			})
		}
	}

	return c.JSON(utils.SuccessResponse(activity))
}

// GetCadenceLeads lists the leads enrolled in a cadence, filterable by their
// per-cadence progress status
func (cc *CadenceController) GetCadenceLeads(c *fiber.Ctx) error {
	cadenceID := utils.ParseUint(c.Params("id"))
	if cadenceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cadence id",
		})
	}

	var cadence models.Cadence
	if err := cc.DB.First(&cadence, cadenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cadence not found",
			})
		}
		cc.Logger.Printf("Error fetching cadence %d: %v", cadenceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadence",
		})
	}

	query := cc.DB.Model(&models.LeadToCadence{}).Where("cadence_id = ?", cadenceID)

	if status := c.Query("status"); status != "" {
		// A paused cadence holds its in-progress leads in place, so a
		// paused filter has to surface them too
		if status == models.CadenceLeadStatusPaused && cadence.Status == models.CadenceStatusPaused {
			query = query.Where("status IN (?, ?)",
				models.CadenceLeadStatusPaused, models.CadenceLeadStatusInProgress)
		} else {
			query = query.Where("status = ?", status)
		}
	}

	page := int(utils.ParseUint(c.Query("page")))
	if page < 1 {
		page = 1
	}
	limit := int(utils.ParseUint(c.Query("limit")))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		cc.Logger.Printf("Error counting cadence leads: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadence leads",
		})
	}

	var links []models.LeadToCadence
	if err := query.
		Preload("Lead").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&links).Error; err != nil {
		cc.Logger.Printf("Error fetching cadence leads: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cadence leads",
		})
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  links,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
