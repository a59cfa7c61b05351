package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"cadence-support/models"

	"gorm.io/gorm"
)

const testNowMS = int64(1_700_000_000_000)

func newTestAggregator(store Store) *Aggregator {
	agg := NewAggregator(store)
	agg.now = func() time.Time { return time.UnixMilli(testNowMS) }
	return agg
}

func (m *memoryStore) addUser(id uint, firstName, lastName string) {
	m.users[id] = models.User{
		Model:     gorm.Model{ID: id},
		FirstName: firstName,
		LastName:  lastName,
	}
}

func (m *memoryStore) addLead(id, userID uint, status string) {
	m.leads[id] = models.Lead{
		Model:  gorm.Model{ID: id},
		UserID: userID,
		Status: status,
	}
}

func (m *memoryStore) addLink(leadID, cadenceID uint, status string, statusNodeID *uint) {
	m.leadLinks = append(m.leadLinks, models.LeadToCadence{
		LeadID:       leadID,
		CadenceID:    cadenceID,
		Status:       status,
		StatusNodeID: statusNodeID,
	})
}

func node(id uint, step int, nodeType string) models.Node {
	return models.Node{
		Model:      gorm.Model{ID: id},
		StepNumber: step,
		Type:       nodeType,
	}
}

func (m *memoryStore) addCadence(id uint, name string, nodes ...models.Node) {
	m.cadences[id] = &models.Cadence{
		Model: gorm.Model{ID: id},
		Name:  name,
		Nodes: nodes,
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCadenceStatisticsOrdersNodesByStep(t *testing.T) {
	store := newMemoryStore()
	// steps stored out of order: 1, 3, 2
	store.addCadence(1, "outbound q3",
		node(10, 1, models.NodeTypeCall),
		node(30, 3, models.NodeTypeCall),
		node(20, 2, models.NodeTypeCall),
	)

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	if len(report.NodeStats) != 3 {
		t.Fatalf("expected 3 node entries, got %d", len(report.NodeStats))
	}
	want := []uint{10, 20, 30}
	for i, entry := range report.NodeStats {
		if entry.NodeID != want[i] {
			t.Errorf("entry %d: node %d, want %d", i, entry.NodeID, want[i])
		}
	}
	if report.CadenceName != "outbound q3" {
		t.Errorf("cadence name %q", report.CadenceName)
	}
}

func TestTaskBucketBoundaryInstant(t *testing.T) {
	store := newMemoryStore()
	store.addCadence(1, "c", node(10, 1, models.NodeTypeCall))
	store.addUser(1, "a", "b")
	store.addLead(100, 1, models.LeadStatusOngoing)
	store.addLead(101, 1, models.LeadStatusOngoing)
	store.addLead(102, 1, models.LeadStatusOngoing)
	for _, id := range []uint{100, 101, 102} {
		store.addLink(id, 1, models.CadenceLeadStatusInProgress, nil)
	}
	store.tasks = []models.Task{
		{CadenceID: 1, NodeID: 10, LeadID: 100, UserID: 1, StartTime: testNowMS},     // boundary: neither bucket
		{CadenceID: 1, NodeID: 10, LeadID: 101, UserID: 1, StartTime: testNowMS + 1}, // scheduled
		{CadenceID: 1, NodeID: 10, LeadID: 102, UserID: 1, StartTime: testNowMS - 1}, // current
	}

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	buckets := report.NodeStats[0].LeadsOnCurrentNode
	if buckets.ScheduledCount != 1 {
		t.Errorf("scheduled_count = %d, want 1", buckets.ScheduledCount)
	}
	if buckets.CurrentCount != 1 {
		t.Errorf("current_count = %d, want 1", buckets.CurrentCount)
	}
}

func TestMailDeliveredRepliedPartition(t *testing.T) {
	store := newMemoryStore()
	store.addCadence(1, "c", node(10, 1, models.NodeTypeMail))
	store.addUser(1, "a", "b")
	store.addLead(100, 1, models.LeadStatusOngoing) // outbound delivery
	store.addLead(101, 1, models.LeadStatusOngoing) // inbound reply
	store.emails = []models.Email{
		{NodeID: 10, LeadID: 100, Status: models.EmailStatusDelivered, Sent: true},
		{NodeID: 10, LeadID: 101, Status: models.EmailStatusDelivered, Sent: false},
	}

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	metrics, ok := report.NodeStats[0].Data.(MailMetrics)
	if !ok {
		t.Fatalf("node data is %T, want MailMetrics", report.NodeStats[0].Data)
	}
	if metrics.DeliveredCount != 1 {
		t.Errorf("delivered_count = %d, want 1", metrics.DeliveredCount)
	}
	if metrics.RepliedCount != 1 {
		t.Errorf("replied_count = %d, want 1", metrics.RepliedCount)
	}
}

func TestABGroupingAndSumEquivalence(t *testing.T) {
	store := newMemoryStore()
	store.addUser(1, "a", "b")
	for id := uint(100); id < 106; id++ {
		store.addLead(id, 1, models.LeadStatusOngoing)
	}
	store.templates = []models.ABTemplate{
		{Model: gorm.Model{ID: 7}, NodeID: 10},
		{Model: gorm.Model{ID: 8}, NodeID: 10},
	}
	// all rows sent so grouped and ungrouped predicates agree
	store.emails = []models.Email{
		{NodeID: 10, LeadID: 100, Status: models.EmailStatusDelivered, Sent: true, ABTemplateID: uintPtr(7)},
		{NodeID: 10, LeadID: 101, Status: models.EmailStatusOpened, Sent: true, ABTemplateID: uintPtr(7)},
		{NodeID: 10, LeadID: 102, Status: models.EmailStatusClicked, Sent: true, ABTemplateID: uintPtr(8)},
		{NodeID: 10, LeadID: 103, Status: models.EmailStatusDelivered, Sent: true, ABTemplateID: uintPtr(8)},
		{NodeID: 10, LeadID: 104, Status: models.EmailStatusBounced, Sent: true, ABTemplateID: uintPtr(8)},
	}

	abNode := node(10, 1, models.NodeTypeAutomatedMail)
	abNode.Data.ABTestEnabled = true
	store.addCadence(1, "c", abNode)

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	groups, ok := report.NodeStats[0].Data.([]MailTemplateMetrics)
	if !ok {
		t.Fatalf("node data is %T, want []MailTemplateMetrics", report.NodeStats[0].Data)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 variant groups, got %d", len(groups))
	}
	if !report.NodeStats[0].ABTestEnabled {
		t.Error("aBTestEnabled not set on entry")
	}

	// same data without the A/B flag folds into one group equal to the sum
	plainNode := node(10, 1, models.NodeTypeAutomatedMail)
	store.addCadence(2, "c2", plainNode)
	store.addLink(0, 2, models.CadenceLeadStatusStopped, nil)

	report2, err := newTestAggregator(store).CadenceStatistics(context.Background(), 2)
	if err != nil {
		t.Fatalf("CadenceStatistics ungrouped: %v", err)
	}
	total, ok := report2.NodeStats[0].Data.(MailMetrics)
	if !ok {
		t.Fatalf("node data is %T, want MailMetrics", report2.NodeStats[0].Data)
	}
	sum := MailMetrics{}
	for _, g := range groups {
		sum.UnsubscribedCount += g.UnsubscribedCount
		sum.DeliveredCount += g.DeliveredCount
		sum.RepliedCount += g.RepliedCount
		sum.OpenedCount += g.OpenedCount
		sum.ClickedCount += g.ClickedCount
		sum.BouncedCount += g.BouncedCount
	}
	if total != sum {
		t.Errorf("ungrouped totals %+v != sum of groups %+v", total, sum)
	}
}

func TestBouncedSentConditionAsymmetry(t *testing.T) {
	store := newMemoryStore()
	store.addUser(1, "a", "b")
	store.addLead(100, 1, models.LeadStatusOngoing)
	store.templates = []models.ABTemplate{{Model: gorm.Model{ID: 7}, NodeID: 10}}
	// a bounce recorded on an unsent row
	store.emails = []models.Email{
		{NodeID: 10, LeadID: 100, Status: models.EmailStatusBounced, Sent: false, ABTemplateID: uintPtr(7)},
	}

	grouped, err := store.MailMetricsByTemplate(context.Background(), 10)
	if err != nil {
		t.Fatalf("MailMetricsByTemplate: %v", err)
	}
	if grouped[0].BouncedCount != 1 {
		t.Errorf("grouped bounced_count = %d, want 1 (no sent condition)", grouped[0].BouncedCount)
	}

	ungrouped, err := store.MailMetrics(context.Background(), 10)
	if err != nil {
		t.Fatalf("MailMetrics: %v", err)
	}
	if ungrouped.BouncedCount != 0 {
		t.Errorf("ungrouped bounced_count = %d, want 0 (sent condition applies)", ungrouped.BouncedCount)
	}
}

func TestDisqualifiedCountedOnlyAtStatusNode(t *testing.T) {
	store := newMemoryStore()
	store.addCadence(1, "c",
		node(10, 1, models.NodeTypeCall),
		node(20, 2, models.NodeTypeCall),
	)
	store.addUser(1, "a", "b")
	store.addLead(100, 1, models.LeadStatusConverted)
	store.addLink(100, 1, models.CadenceLeadStatusStopped, uintPtr(10))

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	first := report.NodeStats[0].DisqualifiedAndConverted
	if len(first) != 1 || first[0].Status != models.LeadStatusConverted || first[0].Count != 1 {
		t.Errorf("node 10 disqualified rows = %+v, want one converted lead", first)
	}
	if len(report.NodeStats[1].DisqualifiedAndConverted) != 0 {
		t.Errorf("node 20 should not count the lead, got %+v", report.NodeStats[1].DisqualifiedAndConverted)
	}
}

func TestEndNodeMovedLeadsDistinct(t *testing.T) {
	store := newMemoryStore()
	store.addUser(1, "a", "b")
	store.addLead(10, 1, models.LeadStatusOngoing)
	store.addLead(20, 1, models.LeadStatusOngoing)

	endNode := node(99, 1, models.NodeTypeEnd)
	endNode.Data.MovedLeads = []uint{10, 20, 20}
	store.addCadence(1, "c", endNode)

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	moved := report.NodeStats[0].MovedLeads
	if moved == nil {
		t.Fatal("movedLeads missing on end node")
	}
	if moved.MovedCount != 2 {
		t.Errorf("moved_count = %d, want 2", moved.MovedCount)
	}
}

func TestEndNodeWithoutMovedLeadsOmitsField(t *testing.T) {
	store := newMemoryStore()
	store.addCadence(1, "c", node(99, 1, models.NodeTypeEnd))

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	if report.NodeStats[0].MovedLeads != nil {
		t.Errorf("movedLeads should be omitted, got %+v", report.NodeStats[0].MovedLeads)
	}
}

func TestFailFastOnAggregateError(t *testing.T) {
	store := newMemoryStore()
	store.addCadence(1, "c",
		node(10, 1, models.NodeTypeCall),
		node(20, 2, models.NodeTypeCall),
	)
	storeErr := errors.New("connection reset")
	store.failures["DoneAndSkipped"] = storeErr

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("error %v does not wrap the store error", err)
	}
	if report != nil {
		t.Errorf("expected no partial report, got %+v", report)
	}
}

func TestTotalLeadsIndependentOfNodes(t *testing.T) {
	store := newMemoryStore()
	// cadence currently has a single node but three historical lead links,
	// one of them pointing at a node no longer in the pipeline
	store.addCadence(1, "c", node(10, 1, models.NodeTypeCall))
	store.addUser(1, "a", "b")
	for id := uint(100); id < 103; id++ {
		store.addLead(id, 1, models.LeadStatusOngoing)
	}
	store.addLink(100, 1, models.CadenceLeadStatusInProgress, nil)
	store.addLink(101, 1, models.CadenceLeadStatusStopped, uintPtr(999))
	store.addLink(102, 1, models.CadenceLeadStatusCompleted, nil)

	report, err := newTestAggregator(store).CadenceStatistics(context.Background(), 1)
	if err != nil {
		t.Fatalf("CadenceStatistics: %v", err)
	}
	if report.Metrics.TotalLeads != 3 {
		t.Errorf("totalLeads = %d, want 3", report.Metrics.TotalLeads)
	}
}

func TestCadenceStatisticsNotFound(t *testing.T) {
	store := newMemoryStore()
	_, err := newTestAggregator(store).CadenceStatistics(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCadenceStatisticsInvalidInput(t *testing.T) {
	store := newMemoryStore()
	_, err := newTestAggregator(store).CadenceStatistics(context.Background(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestNodeStatsGroupsByAssignee(t *testing.T) {
	store := newMemoryStore()
	store.addUser(1, "nina", "moreau")
	store.addUser(2, "paul", "garnier")
	store.addLead(100, 1, models.LeadStatusOngoing)
	store.addLead(101, 2, models.LeadStatusNewLead)
	store.addLead(102, 2, models.LeadStatusOngoing)
	for _, id := range []uint{100, 101, 102} {
		store.addLink(id, 1, models.CadenceLeadStatusInProgress, nil)
	}
	store.tasks = []models.Task{
		{NodeID: 10, LeadID: 100, UserID: 1, StartTime: testNowMS - 5},
		{NodeID: 10, LeadID: 101, UserID: 2, StartTime: testNowMS + 5},
		{NodeID: 10, LeadID: 102, UserID: 2, StartTime: testNowMS - 5},
	}

	activity, err := newTestAggregator(store).NodeStats(context.Background(), 10)
	if err != nil {
		t.Fatalf("NodeStats: %v", err)
	}
	rows := activity.LeadsOnCurrentNode
	if len(rows) != 2 {
		t.Fatalf("expected 2 assignee buckets, got %d", len(rows))
	}
	if rows[0].UserID != 1 || rows[0].CurrentCount != 1 || rows[0].ScheduledCount != 0 {
		t.Errorf("user 1 bucket = %+v", rows[0])
	}
	if rows[1].UserID != 2 || rows[1].CurrentCount != 1 || rows[1].ScheduledCount != 1 {
		t.Errorf("user 2 bucket = %+v", rows[1])
	}
	if rows[0].FirstName != "nina" {
		t.Errorf("profile fields missing: %+v", rows[0])
	}
}

func TestNodeStatsInvalidInput(t *testing.T) {
	store := newMemoryStore()
	_, err := newTestAggregator(store).NodeStats(context.Background(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
