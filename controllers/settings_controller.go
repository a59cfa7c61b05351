package controller

import (
	"log"
	"sync"

	"cadence-support/models"
	"cadence-support/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewSettingsController(db *gorm.DB, logger *log.Logger) *SettingsController {
	return &SettingsController{
		DB:     db,
		Logger: logger,
	}
}

// GetSettings resolves the effective settings of a company, one merged map
// per category. Passing sd_id layers that sub-department's overrides on top
// of the company-wide values. All categories are fetched concurrently.
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	companyID := utils.ParseUint(c.Params("id"))
	if companyID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}
	sdID := utils.ParseUint(c.Query("sd_id"))

	var (
		mu       sync.Mutex
		resolved = make(map[string]map[string]interface{}, len(models.SettingCategories))
	)

	g, gctx := errgroup.WithContext(c.UserContext())
	for _, category := range models.SettingCategories {
		category := category
		g.Go(func() error {
			query := sc.DB.WithContext(gctx).
				Where("company_id = ? AND category = ?", companyID, category)
			if sdID != 0 {
				query = query.Where("sub_department_id IS NULL OR sub_department_id = ?", sdID)
			} else {
				query = query.Where("sub_department_id IS NULL")
			}

			var groups []models.SettingGroup
			if err := query.Find(&groups).Error; err != nil {
				return err
			}

			mu.Lock()
			resolved[category] = utils.MergeSettings(groups)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sc.Logger.Printf("Error fetching settings for company %d: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch settings",
		})
	}

	return c.JSON(utils.SuccessResponse(resolved))
}
