package stats

import (
	"context"
	"sort"

	"cadence-support/models"
)

// memoryStore answers the Store contract from in-memory rows, applying the
// same counting rules as the SQL adapter. Tests drive the aggregator
// through it.
type memoryStore struct {
	cadences  map[uint]*models.Cadence
	leads     map[uint]models.Lead
	users     map[uint]models.User
	leadLinks []models.LeadToCadence
	tasks     []models.Task
	emails    []models.Email
	messages  []models.TextMessage
	templates []models.ABTemplate

	// failures forces an error return per method name
	failures map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		cadences: make(map[uint]*models.Cadence),
		leads:    make(map[uint]models.Lead),
		users:    make(map[uint]models.User),
		failures: make(map[string]error),
	}
}

// leadValid mirrors the required Lead->User join of every aggregate
func (m *memoryStore) leadValid(leadID uint) bool {
	lead, ok := m.leads[leadID]
	if !ok {
		return false
	}
	_, ok = m.users[lead.UserID]
	return ok
}

func (m *memoryStore) leadInProgress(leadID uint) bool {
	for _, link := range m.leadLinks {
		if link.LeadID == leadID && link.Status == models.CadenceLeadStatusInProgress {
			return true
		}
	}
	return false
}

func (m *memoryStore) CadenceWithNodes(_ context.Context, cadenceID uint) (*models.Cadence, error) {
	if err := m.failures["CadenceWithNodes"]; err != nil {
		return nil, err
	}
	cadence, ok := m.cadences[cadenceID]
	if !ok {
		return nil, ErrNotFound
	}
	return cadence, nil
}

func (m *memoryStore) CountCadenceLeads(_ context.Context, cadenceID uint) (int64, error) {
	if err := m.failures["CountCadenceLeads"]; err != nil {
		return 0, err
	}
	var count int64
	for _, link := range m.leadLinks {
		if link.CadenceID == cadenceID {
			count++
		}
	}
	return count, nil
}

func (m *memoryStore) LeadsOnNode(_ context.Context, nodeID uint, nowMS int64) (TaskBuckets, error) {
	if err := m.failures["LeadsOnNode"]; err != nil {
		return TaskBuckets{}, err
	}
	scheduled := map[uint]bool{}
	current := map[uint]bool{}
	for _, t := range m.tasks {
		if t.NodeID != nodeID || t.Completed || t.IsSkipped {
			continue
		}
		lead, ok := m.leads[t.LeadID]
		if !ok || !m.leadValid(t.LeadID) || !m.leadInProgress(t.LeadID) {
			continue
		}
		if lead.Status != models.LeadStatusOngoing && lead.Status != models.LeadStatusNewLead {
			continue
		}
		// strict comparisons on both sides; the boundary instant counts
		// in neither bucket
		if t.StartTime > nowMS {
			scheduled[t.LeadID] = true
		} else if t.StartTime < nowMS {
			current[t.LeadID] = true
		}
	}
	return TaskBuckets{
		ScheduledCount: int64(len(scheduled)),
		CurrentCount:   int64(len(current)),
	}, nil
}

func (m *memoryStore) DoneAndSkipped(_ context.Context, cadenceID, nodeID uint) (DoneSkippedCounts, error) {
	if err := m.failures["DoneAndSkipped"]; err != nil {
		return DoneSkippedCounts{}, err
	}
	completed := map[uint]bool{}
	skipped := map[uint]bool{}
	for _, t := range m.tasks {
		if t.CadenceID != cadenceID || t.NodeID != nodeID {
			continue
		}
		if !t.Completed && !t.IsSkipped {
			continue
		}
		if !m.leadValid(t.LeadID) {
			continue
		}
		if t.Completed {
			completed[t.LeadID] = true
		} else {
			skipped[t.LeadID] = true
		}
	}
	return DoneSkippedCounts{
		CompletedCount: int64(len(completed)),
		SkippedCount:   int64(len(skipped)),
	}, nil
}

func (m *memoryStore) DisqualifiedAndConverted(_ context.Context, cadenceID, nodeID uint) ([]StatusCount, error) {
	if err := m.failures["DisqualifiedAndConverted"]; err != nil {
		return nil, err
	}
	perStatus := map[string]map[uint]bool{}
	for _, link := range m.leadLinks {
		if link.CadenceID != cadenceID || link.StatusNodeID == nil || *link.StatusNodeID != nodeID {
			continue
		}
		lead, ok := m.leads[link.LeadID]
		if !ok || !m.leadValid(link.LeadID) {
			continue
		}
		if lead.Status != models.LeadStatusTrash && lead.Status != models.LeadStatusConverted {
			continue
		}
		if perStatus[lead.Status] == nil {
			perStatus[lead.Status] = map[uint]bool{}
		}
		perStatus[lead.Status][lead.ID] = true
	}
	var rows []StatusCount
	for status, leads := range perStatus {
		rows = append(rows, StatusCount{Status: status, Count: int64(len(leads))})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows, nil
}

func (m *memoryStore) mailMetricsFor(match func(models.Email) bool, grouped bool) MailMetrics {
	unsubscribed := map[uint]bool{}
	delivered := map[uint]bool{}
	replied := map[uint]bool{}
	opened := map[uint]bool{}
	clicked := map[uint]bool{}
	bounced := map[uint]bool{}
	for _, e := range m.emails {
		if !match(e) || !m.leadValid(e.LeadID) {
			continue
		}
		// the grouped query does not condition unsubscribed/bounced on
		// sent; the ungrouped one does
		if e.Unsubscribed && (grouped || e.Sent) {
			unsubscribed[e.LeadID] = true
		}
		switch e.Status {
		case models.EmailStatusDelivered:
			if e.Sent {
				delivered[e.LeadID] = true
			} else {
				replied[e.LeadID] = true
			}
		case models.EmailStatusOpened:
			if e.Sent {
				delivered[e.LeadID] = true
				opened[e.LeadID] = true
			}
		case models.EmailStatusClicked:
			if e.Sent {
				delivered[e.LeadID] = true
				opened[e.LeadID] = true
				clicked[e.LeadID] = true
			}
		case models.EmailStatusBounced:
			if grouped || e.Sent {
				bounced[e.LeadID] = true
			}
		}
	}
	return MailMetrics{
		UnsubscribedCount: int64(len(unsubscribed)),
		DeliveredCount:    int64(len(delivered)),
		RepliedCount:      int64(len(replied)),
		OpenedCount:       int64(len(opened)),
		ClickedCount:      int64(len(clicked)),
		BouncedCount:      int64(len(bounced)),
	}
}

func (m *memoryStore) MailMetricsByTemplate(_ context.Context, nodeID uint) ([]MailTemplateMetrics, error) {
	if err := m.failures["MailMetricsByTemplate"]; err != nil {
		return nil, err
	}
	var rows []MailTemplateMetrics
	for _, tpl := range m.templates {
		if tpl.NodeID != nodeID {
			continue
		}
		tplID := tpl.ID
		metrics := m.mailMetricsFor(func(e models.Email) bool {
			return e.ABTemplateID != nil && *e.ABTemplateID == tplID
		}, true)
		rows = append(rows, MailTemplateMetrics{ABTemplateID: tplID, MailMetrics: metrics})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ABTemplateID < rows[j].ABTemplateID })
	return rows, nil
}

func (m *memoryStore) MailMetrics(_ context.Context, nodeID uint) (MailMetrics, error) {
	if err := m.failures["MailMetrics"]; err != nil {
		return MailMetrics{}, err
	}
	return m.mailMetricsFor(func(e models.Email) bool { return e.NodeID == nodeID }, false), nil
}

func (m *memoryStore) messageMetricsFor(match func(models.TextMessage) bool) MessageMetrics {
	delivered := map[uint]bool{}
	clicked := map[uint]bool{}
	for _, msg := range m.messages {
		if !match(msg) || !m.leadValid(msg.LeadID) || !msg.Sent {
			continue
		}
		switch msg.Status {
		case models.SMSStatusDelivered:
			delivered[msg.LeadID] = true
		case models.SMSStatusClicked:
			delivered[msg.LeadID] = true
			clicked[msg.LeadID] = true
		}
	}
	return MessageMetrics{
		DeliveredCount: int64(len(delivered)),
		ClickedCount:   int64(len(clicked)),
	}
}

func (m *memoryStore) MessageMetricsByTemplate(_ context.Context, nodeID uint) ([]MessageTemplateMetrics, error) {
	if err := m.failures["MessageMetricsByTemplate"]; err != nil {
		return nil, err
	}
	var rows []MessageTemplateMetrics
	for _, tpl := range m.templates {
		if tpl.NodeID != nodeID {
			continue
		}
		tplID := tpl.ID
		metrics := m.messageMetricsFor(func(msg models.TextMessage) bool {
			return msg.ABTemplateID != nil && *msg.ABTemplateID == tplID
		})
		rows = append(rows, MessageTemplateMetrics{ABTemplateID: tplID, MessageMetrics: metrics})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ABTemplateID < rows[j].ABTemplateID })
	return rows, nil
}

func (m *memoryStore) MessageMetrics(_ context.Context, nodeID uint) (MessageMetrics, error) {
	if err := m.failures["MessageMetrics"]; err != nil {
		return MessageMetrics{}, err
	}
	return m.messageMetricsFor(func(msg models.TextMessage) bool { return msg.NodeID == nodeID }), nil
}

func (m *memoryStore) MovedLeadCount(_ context.Context, leadIDs []uint) (int64, error) {
	if err := m.failures["MovedLeadCount"]; err != nil {
		return 0, err
	}
	distinct := map[uint]bool{}
	for _, id := range leadIDs {
		if m.leadValid(id) {
			distinct[id] = true
		}
	}
	return int64(len(distinct)), nil
}

func (m *memoryStore) LeadsOnNodeByUser(_ context.Context, nodeID uint, nowMS int64) ([]UserNodeBucket, error) {
	if err := m.failures["LeadsOnNodeByUser"]; err != nil {
		return nil, err
	}
	perUser := map[uint]*UserNodeBucket{}
	for _, t := range m.tasks {
		if t.NodeID != nodeID || t.Completed || t.IsSkipped {
			continue
		}
		lead, ok := m.leads[t.LeadID]
		if !ok || !m.leadInProgress(t.LeadID) {
			continue
		}
		if lead.Status != models.LeadStatusOngoing && lead.Status != models.LeadStatusNewLead {
			continue
		}
		bucket, ok := perUser[t.UserID]
		if !ok {
			user := m.users[t.UserID]
			bucket = &UserNodeBucket{
				UserID:                  t.UserID,
				FirstName:               user.FirstName,
				LastName:                user.LastName,
				ProfilePicture:          user.ProfilePicture,
				IsProfilePicturePresent: user.IsProfilePicturePresent,
			}
			perUser[t.UserID] = bucket
		}
		// task counts here, not distinct leads
		if t.StartTime > nowMS {
			bucket.ScheduledCount++
		} else if t.StartTime < nowMS {
			bucket.CurrentCount++
		}
	}
	var rows []UserNodeBucket
	for _, bucket := range perUser {
		rows = append(rows, *bucket)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, nil
}
