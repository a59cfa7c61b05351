package models

import (
	"gorm.io/gorm"
)

// Email is one outbound (or inbound, when Sent is false) email tied to a
// cadence node and a lead. An inbound row with status delivered is a reply.
type Email struct {
	gorm.Model
	NodeID    uint `gorm:"not null;index" json:"node_id"`
	LeadID    uint `gorm:"not null;index" json:"lead_id"`
	CadenceID uint `gorm:"index" json:"cadence_id"`

	MessageID string `gorm:"index" json:"message_id"`
	Status    string `gorm:"default:'delivered';index" json:"status"` // delivered, opened, clicked, bounced, failed
	Sent      bool   `gorm:"default:true" json:"sent"`

	Unsubscribed bool `gorm:"default:false" json:"unsubscribed"`

	// Set when the node ran an A/B split
	ABTemplateID *uint `gorm:"index" json:"ab_template_id"`

	// Relations
	Node Node `json:"-"`
	Lead Lead `json:"-"`
}

// TextMessage is one SMS-like message tied to a cadence node and a lead
type TextMessage struct {
	gorm.Model
	NodeID    uint `gorm:"not null;index" json:"node_id"`
	LeadID    uint `gorm:"not null;index" json:"lead_id"`
	CadenceID uint `gorm:"index" json:"cadence_id"`

	Status string `gorm:"default:'delivered';index" json:"status"` // delivered, clicked, failed
	Sent   bool   `gorm:"default:true" json:"sent"`

	// Set when the node ran an A/B split
	ABTemplateID *uint `gorm:"index" json:"ab_template_id"`

	// Relations
	Node Node `json:"-"`
	Lead Lead `json:"-"`
}

// ABTemplate is one variant of a node's A/B-tested content
type ABTemplate struct {
	gorm.Model
	NodeID uint `gorm:"not null;index" json:"node_id"`

	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `gorm:"type:text" json:"body"`
	Percent int    `gorm:"default:50" json:"percent"` // share of leads routed to this variant

	// Relations
	Node Node `json:"-"`
}

func (TextMessage) TableName() string { return "text_messages" }

func (ABTemplate) TableName() string { return "ab_templates" }
