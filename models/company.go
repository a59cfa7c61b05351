package models

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a customer organization on the cadence platform
type Company struct {
	gorm.Model
	Name   string `gorm:"not null" json:"name"`
	Status string `gorm:"default:'active'" json:"status"` // active, suspended, churned

	// CRM integration
	IntegrationType string `json:"integration_type"` // salesforce, hubspot, pipedrive, sheets

	// Licensing
	PlanID               string     `json:"plan_id"`
	PlanName             string     `json:"plan_name"`
	NumberOfLicenses     int        `gorm:"default:0" json:"number_of_licenses"`
	IsSubscriptionActive bool       `gorm:"default:false" json:"is_subscription_active"`
	IsTrialActive        bool       `gorm:"default:false" json:"is_trial_active"`
	TrialValidUntil      *time.Time `json:"trial_valid_until"`
	LicenseActivatedOn   *time.Time `json:"license_activated_on"`

	// Relations
	Users          []User          `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
	SubDepartments []SubDepartment `gorm:"foreignKey:CompanyID" json:"sub_departments,omitempty"`
	Cadences       []Cadence       `gorm:"foreignKey:CompanyID" json:"cadences,omitempty"`
}

// SubDepartment is a sales team within a company
type SubDepartment struct {
	gorm.Model
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`

	ProfilePicture          string `json:"profile_picture"`
	IsProfilePicturePresent bool   `gorm:"default:false" json:"is_profile_picture_present"`

	// Relations
	Company Company `json:"-"`
	Users   []User  `gorm:"foreignKey:SubDepartmentID" json:"users,omitempty"`
}

// User is a sales user of the main platform, read-only from the support panel
type User struct {
	gorm.Model
	CompanyID       uint  `gorm:"not null;index" json:"company_id"`
	SubDepartmentID *uint `gorm:"index" json:"sd_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"not null;index" json:"email"`
	Role      string `gorm:"default:'sales_person'" json:"role"`

	ProfilePicture          string `json:"profile_picture"`
	IsProfilePicturePresent bool   `gorm:"default:false" json:"is_profile_picture_present"`

	// Relations
	Company       Company        `json:"-"`
	SubDepartment *SubDepartment `gorm:"foreignKey:SubDepartmentID" json:"sub_department,omitempty"`
}
