package stats

import (
	"context"
	"errors"
	"fmt"

	"cadence-support/models"

	"gorm.io/gorm"
)

// GormStore answers the Store contract against the platform database.
// Aggregates run as raw SQL so the distinct-by-lead CASE counting stays in
// one round trip per aggregate.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CadenceWithNodes(ctx context.Context, cadenceID uint) (*models.Cadence, error) {
	var cadence models.Cadence
	err := s.db.WithContext(ctx).
		Preload("Nodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Preload("Nodes.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "node_id", "lead_id", "completed", "is_skipped", "user_id")
		}).
		First(&cadence, cadenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching cadence %d: %w", cadenceID, err)
	}
	return &cadence, nil
}

func (s *GormStore) CountCadenceLeads(ctx context.Context, cadenceID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LeadToCadence{}).
		Where("cadence_id = ?", cadenceID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting cadence leads: %w", err)
	}
	return count, nil
}

func (s *GormStore) LeadsOnNode(ctx context.Context, nodeID uint, nowMS int64) (TaskBuckets, error) {
	var buckets TaskBuckets
	err := s.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(DISTINCT CASE WHEN t.start_time > ? THEN t.lead_id END) AS scheduled_count,
            COUNT(DISTINCT CASE WHEN t.start_time < ? THEN t.lead_id END) AS current_count
        FROM tasks t
        JOIN leads l ON l.id = t.lead_id
        JOIN users u ON u.id = l.user_id
        JOIN lead_to_cadences ltc ON ltc.lead_id = l.id
        WHERE t.node_id = ?
          AND t.completed = false
          AND t.is_skipped = false
          AND l.status IN (?, ?)
          AND ltc.status = ?
    `, nowMS, nowMS, nodeID,
		models.LeadStatusOngoing, models.LeadStatusNewLead,
		models.CadenceLeadStatusInProgress,
	).Scan(&buckets).Error
	if err != nil {
		return TaskBuckets{}, fmt.Errorf("fetching leads on node %d: %w", nodeID, err)
	}
	return buckets, nil
}

func (s *GormStore) DoneAndSkipped(ctx context.Context, cadenceID, nodeID uint) (DoneSkippedCounts, error) {
	var counts DoneSkippedCounts
	err := s.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(DISTINCT CASE WHEN t.completed THEN t.lead_id END) AS completed_count,
            COUNT(DISTINCT CASE WHEN NOT t.completed THEN t.lead_id END) AS skipped_count
        FROM tasks t
        JOIN leads l ON l.id = t.lead_id
        JOIN users u ON u.id = l.user_id
        WHERE t.cadence_id = ?
          AND t.node_id = ?
          AND (t.completed = true OR t.is_skipped = true)
    `, cadenceID, nodeID).Scan(&counts).Error
	if err != nil {
		return DoneSkippedCounts{}, fmt.Errorf("fetching done/skipped tasks for node %d: %w", nodeID, err)
	}
	return counts, nil
}

func (s *GormStore) DisqualifiedAndConverted(ctx context.Context, cadenceID, nodeID uint) ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.WithContext(ctx).Raw(`
        SELECT l.status AS status, COUNT(DISTINCT l.id) AS count
        FROM leads l
        JOIN lead_to_cadences ltc ON ltc.lead_id = l.id
        JOIN users u ON u.id = l.user_id
        WHERE l.status IN (?, ?)
          AND ltc.cadence_id = ?
          AND ltc.status_node_id = ?
        GROUP BY l.status
    `, models.LeadStatusTrash, models.LeadStatusConverted, cadenceID, nodeID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching disqualified leads for node %d: %w", nodeID, err)
	}
	return rows, nil
}

// MailMetricsByTemplate groups mail metrics per A/B variant. The bounced and
// unsubscribed counts here are not conditioned on sent, unlike the ungrouped
// query below; the dashboard has always shown it this way.
func (s *GormStore) MailMetricsByTemplate(ctx context.Context, nodeID uint) ([]MailTemplateMetrics, error) {
	var rows []MailTemplateMetrics
	err := s.db.WithContext(ctx).Raw(`
        SELECT ab.id AS ab_template_id,
            COUNT(DISTINCT CASE WHEN e.unsubscribed THEN e.lead_id END) AS unsubscribed_count,
            COUNT(DISTINCT CASE WHEN e.status IN (?, ?, ?) AND e.sent THEN e.lead_id END) AS delivered_count,
            COUNT(DISTINCT CASE WHEN e.status = ? AND NOT e.sent THEN e.lead_id END) AS replied_count,
            COUNT(DISTINCT CASE WHEN e.status IN (?, ?) AND e.sent THEN e.lead_id END) AS opened_count,
            COUNT(DISTINCT CASE WHEN e.status = ? AND e.sent THEN e.lead_id END) AS clicked_count,
            COUNT(DISTINCT CASE WHEN e.status = ? THEN e.lead_id END) AS bounced_count
        FROM ab_templates ab
        JOIN emails e ON e.ab_template_id = ab.id
        JOIN leads l ON l.id = e.lead_id
        JOIN users u ON u.id = l.user_id
        WHERE ab.node_id = ?
        GROUP BY ab.id
    `,
		models.EmailStatusDelivered, models.EmailStatusOpened, models.EmailStatusClicked,
		models.EmailStatusDelivered,
		models.EmailStatusOpened, models.EmailStatusClicked,
		models.EmailStatusClicked,
		models.EmailStatusBounced,
		nodeID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching A/B mail metrics for node %d: %w", nodeID, err)
	}
	return rows, nil
}

func (s *GormStore) MailMetrics(ctx context.Context, nodeID uint) (MailMetrics, error) {
	var metrics MailMetrics
	err := s.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(DISTINCT CASE WHEN e.unsubscribed AND e.sent THEN e.lead_id END) AS unsubscribed_count,
            COUNT(DISTINCT CASE WHEN e.status IN (?, ?, ?) AND e.sent THEN e.lead_id END) AS delivered_count,
            COUNT(DISTINCT CASE WHEN e.status = ? AND NOT e.sent THEN e.lead_id END) AS replied_count,
            COUNT(DISTINCT CASE WHEN e.status IN (?, ?) AND e.sent THEN e.lead_id END) AS opened_count,
            COUNT(DISTINCT CASE WHEN e.status = ? AND e.sent THEN e.lead_id END) AS clicked_count,
            COUNT(DISTINCT CASE WHEN e.status = ? AND e.sent THEN e.lead_id END) AS bounced_count
        FROM emails e
        JOIN leads l ON l.id = e.lead_id
        JOIN users u ON u.id = l.user_id
        WHERE e.node_id = ?
    `,
		models.EmailStatusDelivered, models.EmailStatusOpened, models.EmailStatusClicked,
		models.EmailStatusDelivered,
		models.EmailStatusOpened, models.EmailStatusClicked,
		models.EmailStatusClicked,
		models.EmailStatusBounced,
		nodeID,
	).Scan(&metrics).Error
	if err != nil {
		return MailMetrics{}, fmt.Errorf("fetching mail metrics for node %d: %w", nodeID, err)
	}
	return metrics, nil
}

func (s *GormStore) MessageMetricsByTemplate(ctx context.Context, nodeID uint) ([]MessageTemplateMetrics, error) {
	var rows []MessageTemplateMetrics
	err := s.db.WithContext(ctx).Raw(`
        SELECT ab.id AS ab_template_id,
            COUNT(DISTINCT CASE WHEN m.status IN (?, ?) AND m.sent THEN m.lead_id END) AS delivered_count,
            COUNT(DISTINCT CASE WHEN m.status = ? AND m.sent THEN m.lead_id END) AS clicked_count
        FROM ab_templates ab
        JOIN text_messages m ON m.ab_template_id = ab.id
        JOIN leads l ON l.id = m.lead_id
        JOIN users u ON u.id = l.user_id
        WHERE ab.node_id = ?
        GROUP BY ab.id
    `,
		models.SMSStatusDelivered, models.SMSStatusClicked,
		models.SMSStatusClicked,
		nodeID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching A/B message metrics for node %d: %w", nodeID, err)
	}
	return rows, nil
}

func (s *GormStore) MessageMetrics(ctx context.Context, nodeID uint) (MessageMetrics, error) {
	var metrics MessageMetrics
	err := s.db.WithContext(ctx).Raw(`
        SELECT
            COUNT(DISTINCT CASE WHEN m.status IN (?, ?) AND m.sent THEN m.lead_id END) AS delivered_count,
            COUNT(DISTINCT CASE WHEN m.status = ? AND m.sent THEN m.lead_id END) AS clicked_count
        FROM text_messages m
        JOIN leads l ON l.id = m.lead_id
        JOIN users u ON u.id = l.user_id
        WHERE m.node_id = ?
    `,
		models.SMSStatusDelivered, models.SMSStatusClicked,
		models.SMSStatusClicked,
		nodeID,
	).Scan(&metrics).Error
	if err != nil {
		return MessageMetrics{}, fmt.Errorf("fetching message metrics for node %d: %w", nodeID, err)
	}
	return metrics, nil
}

func (s *GormStore) MovedLeadCount(ctx context.Context, leadIDs []uint) (int64, error) {
	if len(leadIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Raw(`
        SELECT COUNT(DISTINCT l.id)
        FROM leads l
        JOIN users u ON u.id = l.user_id
        WHERE l.id IN ?
    `, leadIDs).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting moved leads: %w", err)
	}
	return count, nil
}

func (s *GormStore) LeadsOnNodeByUser(ctx context.Context, nodeID uint, nowMS int64) ([]UserNodeBucket, error) {
	var rows []UserNodeBucket
	err := s.db.WithContext(ctx).Raw(`
        SELECT t.user_id,
            u.first_name, u.last_name, u.profile_picture, u.is_profile_picture_present,
            COUNT(CASE WHEN t.start_time > ? THEN 1 END) AS scheduled_count,
            COUNT(CASE WHEN t.start_time < ? THEN 1 END) AS count
        FROM tasks t
        JOIN leads l ON l.id = t.lead_id
        JOIN lead_to_cadences ltc ON ltc.lead_id = l.id
        JOIN users u ON u.id = t.user_id
        WHERE t.node_id = ?
          AND t.completed = false
          AND t.is_skipped = false
          AND l.status IN (?, ?)
          AND ltc.status = ?
        GROUP BY t.user_id, u.first_name, u.last_name, u.profile_picture, u.is_profile_picture_present
    `, nowMS, nowMS, nodeID,
		models.LeadStatusOngoing, models.LeadStatusNewLead,
		models.CadenceLeadStatusInProgress,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching node activity for node %d: %w", nodeID, err)
	}
	return rows, nil
}
