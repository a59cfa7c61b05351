package models

import (
	"gorm.io/gorm"
)

// Cadence represents a multi-step outreach sequence
type Cadence struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"default:'not_started'" json:"status"` // not_started, in_progress, paused, scheduled
	Type        string `gorm:"default:'personal'" json:"type"`      // personal, team, company
	Priority    string `gorm:"default:'standard'" json:"priority"`
	InsideSales bool   `gorm:"default:false" json:"inside_sales"`

	// Ownership; personal cadences carry a user, team cadences a
	// sub-department, company cadences a company
	UserID          *uint `gorm:"index" json:"user_id"`
	SubDepartmentID *uint `gorm:"index" json:"sd_id"`
	CompanyID       *uint `gorm:"index" json:"company_id"`

	IntegrationType string `json:"integration_type"`
	UnixResumeAt    int64  `gorm:"default:0" json:"unix_resume_at"`

	// Relations
	User          *User          `json:"user,omitempty"`
	SubDepartment *SubDepartment `gorm:"foreignKey:SubDepartmentID" json:"sub_department,omitempty"`
	Company       *Company       `json:"-"`
	Nodes         []Node         `gorm:"foreignKey:CadenceID" json:"nodes,omitempty"`
	LeadLinks     []LeadToCadence `gorm:"foreignKey:CadenceID" json:"lead_links,omitempty"`
}

// Node is one ordered step of a cadence pipeline. StepNumber defines a
// strict total order within the owning cadence.
type Node struct {
	gorm.Model
	CadenceID  uint   `gorm:"not null;index" json:"cadence_id"`
	Name       string `json:"name"`
	Type       string `gorm:"not null" json:"type"` // see NodeType constants
	StepNumber int    `gorm:"not null" json:"step_number"`
	WaitTime   int    `gorm:"default:0" json:"wait_time"` // minutes before the step fires

	// Channel-specific config stored as JSON
	Data NodeData `gorm:"type:jsonb;serializer:json" json:"data"`

	// Relations
	Cadence Cadence `json:"-"`
	Tasks   []Task  `gorm:"foreignKey:NodeID" json:"tasks,omitempty"`
}

// NodeData carries the channel-specific payload of a node
type NodeData struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// Mail/message nodes
	ABTestEnabled bool   `json:"aBTestEnabled,omitempty"`
	Attachments   []uint `json:"attachments,omitempty"`

	// End nodes: leads moved into another cadence when this one finished
	MovedLeads []uint `json:"moved_leads,omitempty"`
	MovedToCadenceID *uint `json:"moved_to_cadence_id,omitempty"`
}

// Task binds a lead to a node at a point in time. StartTime is the
// scheduling instant in epoch milliseconds.
type Task struct {
	gorm.Model
	CadenceID uint `gorm:"not null;index" json:"cadence_id"`
	NodeID    uint `gorm:"not null;index" json:"node_id"`
	LeadID    uint `gorm:"not null;index" json:"lead_id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`

	Completed bool  `gorm:"default:false" json:"completed"`
	IsSkipped bool  `gorm:"default:false" json:"is_skipped"`
	StartTime int64 `gorm:"not null" json:"start_time"`

	// Relations
	Node Node `json:"-"`
	Lead Lead `json:"-"`
	User User `json:"-"`
}
