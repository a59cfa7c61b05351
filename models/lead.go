package models

import (
	"gorm.io/gorm"
)

// Lead represents a single prospect tracked through one or more cadences
type Lead struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"` // owning sales user

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"index" json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Position  string `json:"position"`

	Status string `gorm:"default:'new_lead';index" json:"status"` // new_lead, ongoing, paused, stopped, trash, converted
	Source string `json:"source"`

	// Relations
	User         User            `json:"-"`
	CadenceLinks []LeadToCadence `gorm:"foreignKey:LeadID" json:"cadence_links,omitempty"`
	Tasks        []Task          `gorm:"foreignKey:LeadID" json:"tasks,omitempty"`
}

// LeadToCadence tracks a lead's progress within one cadence. StatusNodeID
// records the node at which the lead was disqualified or converted.
type LeadToCadence struct {
	gorm.Model
	LeadID    uint `gorm:"not null;index" json:"lead_id"`
	CadenceID uint `gorm:"not null;index" json:"cadence_id"`

	Status       string `gorm:"default:'in_progress';index" json:"status"` // in_progress, paused, stopped, completed
	StatusNodeID *uint  `gorm:"index" json:"status_node_id"`
	UnixResumeAt int64  `gorm:"default:0" json:"unix_resume_at"`

	// Relations
	Lead    Lead    `json:"-"`
	Cadence Cadence `json:"-"`
}

// Activity is a timeline event on a lead, relayed to the support dashboard
// when it originates from a webhook
type Activity struct {
	gorm.Model
	LeadID uint `gorm:"index" json:"lead_id"`

	Name    string `gorm:"not null" json:"name"`
	Type    string `gorm:"not null" json:"type"` // incoming, mail, message, call, note
	Status  string `json:"status"`
	Comment string `gorm:"type:text" json:"comment"`

	// Relations
	Lead Lead `json:"-"`
}
