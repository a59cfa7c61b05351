package stats

import (
	"cadence-support/models"
)

// Report is the full per-cadence statistics payload returned to the
// support dashboard. NodeStats is ordered by ascending step number.
type Report struct {
	CadenceName string         `json:"cadenceName"`
	Metrics     CadenceMetrics `json:"metrics"`
	NodeStats   []NodeReport   `json:"nodeStats"`
}

// CadenceMetrics holds cadence-level totals, independent of node filtering
type CadenceMetrics struct {
	TotalLeads int64 `json:"totalLeads"`
}

// NodeReport is the statistics entry for one node of the pipeline
type NodeReport struct {
	Name          string        `json:"name"`
	NodeID        uint          `json:"node_id"`
	TaskCount     int           `json:"task_count"`
	Tasks         []models.Task `json:"tasks,omitempty"`
	ABTestEnabled bool          `json:"aBTestEnabled,omitempty"`

	LeadsOnCurrentNode       TaskBuckets       `json:"leadsOnCurrentNode"`
	DoneAndSkipped           DoneSkippedCounts `json:"doneAndSkippedTasksForCurrentNode"`
	DisqualifiedAndConverted []StatusCount     `json:"disqualifiedAndConvertedLeads"`

	// Channel metrics for mail/message nodes: MailMetrics,
	// []MailTemplateMetrics, MessageMetrics or []MessageTemplateMetrics
	Data interface{} `json:"data,omitempty"`

	// End nodes only, when the node carries a moved-lead list
	MovedLeads *MovedLeadCount `json:"movedLeads,omitempty"`
}

// TaskBuckets partitions a node's pending tasks by scheduling instant
// against the reference time. A task whose start time equals the reference
// instant lands in neither bucket.
type TaskBuckets struct {
	ScheduledCount int64 `json:"scheduled_count"`
	CurrentCount   int64 `json:"current_count"`
}

// DoneSkippedCounts partitions a node's finished tasks
type DoneSkippedCounts struct {
	CompletedCount int64 `json:"completed_count"`
	SkippedCount   int64 `json:"skipped_count"`
}

// StatusCount is one per-status row of the disqualified/converted aggregate
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MailMetrics are the channel metrics of a mail-family node, each count
// distinct by lead
type MailMetrics struct {
	UnsubscribedCount int64 `json:"unsubscribed_count"`
	DeliveredCount    int64 `json:"delivered_count"`
	RepliedCount      int64 `json:"replied_count"`
	OpenedCount       int64 `json:"opened_count"`
	ClickedCount      int64 `json:"clicked_count"`
	BouncedCount      int64 `json:"bounced_count"`
}

// MailTemplateMetrics are MailMetrics for one A/B variant
type MailTemplateMetrics struct {
	ABTemplateID uint `json:"ab_template_id"`
	MailMetrics
}

// MessageMetrics are the channel metrics of a message-family node
type MessageMetrics struct {
	DeliveredCount int64 `json:"delivered_count"`
	ClickedCount   int64 `json:"clicked_count"`
}

// MessageTemplateMetrics are MessageMetrics for one A/B variant
type MessageTemplateMetrics struct {
	ABTemplateID uint `json:"ab_template_id"`
	MessageMetrics
}

// MovedLeadCount is the distinct count of leads an end node moved into
// another cadence
type MovedLeadCount struct {
	MovedCount int64 `json:"moved_count"`
}

// NodeActivity is the single-node drill-down payload of NodeStats
type NodeActivity struct {
	LeadsOnCurrentNode []UserNodeBucket `json:"leadsOnCurrentNode"`
}

// UserNodeBucket is one assignee's share of a node's pending tasks. Unlike
// the per-cadence report these are task counts, not distinct leads.
type UserNodeBucket struct {
	UserID                  uint   `json:"user_id" gorm:"column:user_id"`
	FirstName               string `json:"first_name" gorm:"column:first_name"`
	LastName                string `json:"last_name" gorm:"column:last_name"`
	ProfilePicture          string `json:"profile_picture" gorm:"column:profile_picture"`
	IsProfilePicturePresent bool   `json:"is_profile_picture_present" gorm:"column:is_profile_picture_present"`
	ScheduledCount          int64  `json:"scheduled_count" gorm:"column:scheduled_count"`
	CurrentCount            int64  `json:"count" gorm:"column:count"`
}
