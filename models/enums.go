package models

// Cadence status values
const (
	CadenceStatusNotStarted = "not_started"
	CadenceStatusInProgress = "in_progress"
	CadenceStatusPaused     = "paused"
	CadenceStatusScheduled  = "scheduled"
)

// Cadence ownership types
const (
	CadenceTypePersonal = "personal"
	CadenceTypeTeam     = "team"
	CadenceTypeCompany  = "company"
)

// Node types (channel/action of a cadence step)
const (
	NodeTypeMail             = "mail"
	NodeTypeAutomatedMail    = "automated_mail"
	NodeTypeReplyTo          = "reply_to"
	NodeTypeAutomatedReplyTo = "automated_reply_to"
	NodeTypeMessage          = "message"
	NodeTypeAutomatedMessage = "automated_message"
	NodeTypeCall             = "call"
	NodeTypeDataCheck        = "data_check"
	NodeTypeEnd              = "end"
)

// Lead status values
const (
	LeadStatusNewLead   = "new_lead"
	LeadStatusOngoing   = "ongoing"
	LeadStatusPaused    = "paused"
	LeadStatusStopped   = "stopped"
	LeadStatusTrash     = "trash"
	LeadStatusConverted = "converted"
)

// Per-cadence lead progress status (lead_to_cadences.status)
const (
	CadenceLeadStatusInProgress = "in_progress"
	CadenceLeadStatusPaused     = "paused"
	CadenceLeadStatusStopped    = "stopped"
	CadenceLeadStatusCompleted  = "completed"
)

// Email delivery status values
const (
	EmailStatusDelivered = "delivered"
	EmailStatusOpened    = "opened"
	EmailStatusClicked   = "clicked"
	EmailStatusBounced   = "bounced"
	EmailStatusFailed    = "failed"
)

// SMS delivery status values
const (
	SMSStatusDelivered = "delivered"
	SMSStatusClicked   = "clicked"
	SMSStatusFailed    = "failed"
)

// User roles on the main platform
const (
	UserRoleSalesPerson  = "sales_person"
	UserRoleSalesManager = "sales_manager"
	UserRoleAdmin        = "admin"
	UserRoleSuperAdmin   = "super_admin"
)

// Settings scope levels, most specific wins
const (
	SettingLevelUser          = "user"
	SettingLevelSubDepartment = "sub_department"
	SettingLevelAdmin         = "admin"
)
