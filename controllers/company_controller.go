package controller

import (
	"errors"
	"log"
	"time"

	"cadence-support/models"
	"cadence-support/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompanyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCompanyController(db *gorm.DB, logger *log.Logger) *CompanyController {
	return &CompanyController{
		DB:     db,
		Logger: logger,
	}
}

// GetCompany returns one company with its sub-departments
func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	companyID := utils.ParseUint(c.Params("id"))
	if companyID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	var company models.Company
	err := cc.DB.Preload("SubDepartments").First(&company, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}
	if err != nil {
		cc.Logger.Printf("Error fetching company %d: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch company",
		})
	}

	return c.JSON(utils.SuccessResponse(company))
}

// GetCompanyLicense returns the licensing block for the company page,
// including seat usage and remaining trial days
func (cc *CompanyController) GetCompanyLicense(c *fiber.Ctx) error {
	companyID := utils.ParseUint(c.Params("id"))
	if companyID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	var company models.Company
	err := cc.DB.First(&company, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}
	if err != nil {
		cc.Logger.Printf("Error fetching company %d: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch company",
		})
	}

	var usedLicenses int64
	if err := cc.DB.Model(&models.User{}).
		Where("company_id = ?", companyID).
		Count(&usedLicenses).Error; err != nil {
		cc.Logger.Printf("Error counting users for company %d: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch license usage",
		})
	}

	summary := utils.BuildLicenseSummary(&company, usedLicenses, time.Now())
	return c.JSON(utils.SuccessResponse(summary))
}

// GetCompanyUsers lists a company's sales users, optionally scoped to one
// sub-department
func (cc *CompanyController) GetCompanyUsers(c *fiber.Ctx) error {
	companyID := utils.ParseUint(c.Params("id"))
	if companyID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	query := cc.DB.Model(&models.User{}).Where("company_id = ?", companyID)
	if sdID := utils.ParseUint(c.Query("sd_id")); sdID != 0 {
		query = query.Where("sub_department_id = ?", sdID)
	}

	var users []models.User
	if err := query.Order("first_name ASC").Find(&users).Error; err != nil {
		cc.Logger.Printf("Error fetching users for company %d: %v", companyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(utils.SuccessResponse(users))
}
