package stats

import (
	"context"
	"errors"

	"cadence-support/models"
)

var (
	// ErrNotFound is returned when the referenced cadence does not exist
	ErrNotFound = errors.New("cadence not found")

	// ErrInvalidInput is returned for a missing or zero identifier
	ErrInvalidInput = errors.New("missing required identifier")
)

// Store is the read-only data access contract of the statistics engine.
// All aggregate methods are independent point-in-time reads; the engine
// performs no writes and expects no transactional coupling between calls.
type Store interface {
	// CadenceWithNodes resolves a cadence together with its nodes ordered
	// by ascending step number, each node carrying a minimal task
	// projection. Returns ErrNotFound when no cadence matches.
	CadenceWithNodes(ctx context.Context, cadenceID uint) (*models.Cadence, error)

	// CountCadenceLeads counts lead-to-cadence rows for the cadence,
	// independent of node traversal.
	CountCadenceLeads(ctx context.Context, cadenceID uint) (int64, error)

	// LeadsOnNode buckets the node's pending tasks into scheduled
	// (start_time strictly after nowMS) and current (strictly before),
	// distinct by lead, restricted to active leads in running cadences.
	LeadsOnNode(ctx context.Context, nodeID uint, nowMS int64) (TaskBuckets, error)

	// DoneAndSkipped counts leads whose task at the node finished, split
	// into completed and skipped.
	DoneAndSkipped(ctx context.Context, cadenceID, nodeID uint) (DoneSkippedCounts, error)

	// DisqualifiedAndConverted counts trashed/converted leads whose
	// per-cadence status points at the node, grouped by lead status.
	DisqualifiedAndConverted(ctx context.Context, cadenceID, nodeID uint) ([]StatusCount, error)

	// Channel metrics for mail-family nodes, grouped per A/B variant or
	// over the whole node.
	MailMetricsByTemplate(ctx context.Context, nodeID uint) ([]MailTemplateMetrics, error)
	MailMetrics(ctx context.Context, nodeID uint) (MailMetrics, error)

	// Channel metrics for message-family nodes.
	MessageMetricsByTemplate(ctx context.Context, nodeID uint) ([]MessageTemplateMetrics, error)
	MessageMetrics(ctx context.Context, nodeID uint) (MessageMetrics, error)

	// MovedLeadCount counts distinct valid leads among the given ids.
	MovedLeadCount(ctx context.Context, leadIDs []uint) (int64, error)

	// LeadsOnNodeByUser buckets the node's pending tasks per assignee with
	// profile fields for display. Task counts, not distinct leads.
	LeadsOnNodeByUser(ctx context.Context, nodeID uint, nowMS int64) ([]UserNodeBucket, error)
}
