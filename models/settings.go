package models

import (
	"gorm.io/gorm"
)

// SettingGroup is one row of a per-company setting category, scoped either
// to the whole company (admin level) or to one sub-department. The support
// panel resolves effective values by priority: sub-department beats admin.
type SettingGroup struct {
	gorm.Model
	CompanyID       uint   `gorm:"not null;index" json:"company_id"`
	SubDepartmentID *uint  `gorm:"index" json:"sd_id"`
	Category        string `gorm:"not null;index" json:"category"` // automated_task, unsubscribe_mail, bounced_mail, task, skip, lead_score
	Level           string `gorm:"not null" json:"level"`          // admin, sub_department, user

	// Free-form payload; categories carry different keys
	Values map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"values"`

	// Relations
	Company       Company        `json:"-"`
	SubDepartment *SubDepartment `gorm:"foreignKey:SubDepartmentID" json:"sub_department,omitempty"`
}

// Setting categories surfaced on the support panel
var SettingCategories = []string{
	"automated_task",
	"unsubscribe_mail",
	"bounced_mail",
	"task",
	"skip",
	"lead_score",
}
