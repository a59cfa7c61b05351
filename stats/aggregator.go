package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cadence-support/models"

	"golang.org/x/sync/errgroup"
)

// Aggregator assembles the per-cadence statistics report. It owns no state
// beyond its Store and performs read-only work; one report request captures
// the reference time once and reuses it for every threshold comparison.
type Aggregator struct {
	store Store
	now   func() time.Time
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{
		store: store,
		now:   time.Now,
	}
}

// CadenceStatistics builds the full report for one cadence. Node entries
// appear in ascending step-number order. Any failed sub-query aborts the
// whole report; there are no partial results.
func (a *Aggregator) CadenceStatistics(ctx context.Context, cadenceID uint) (*Report, error) {
	if cadenceID == 0 {
		return nil, ErrInvalidInput
	}

	// The cadence load and the lead count are independent reads
	var (
		cadence    *models.Cadence
		totalLeads int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cadence, err = a.store.CadenceWithNodes(gctx, cadenceID)
		return err
	})
	g.Go(func() error {
		var err error
		totalLeads, err = a.store.CountCadenceLeads(gctx, cadenceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nodes := make([]models.Node, len(cadence.Nodes))
	copy(nodes, cadence.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].StepNumber < nodes[j].StepNumber
	})

	report := &Report{
		CadenceName: cadence.Name,
		Metrics:     CadenceMetrics{TotalLeads: totalLeads},
		NodeStats:   make([]NodeReport, 0, len(nodes)),
	}

	nowMS := a.now().UnixMilli()

	for i := range nodes {
		entry, err := a.nodeReport(ctx, cadenceID, &nodes[i], nowMS)
		if err != nil {
			return nil, fmt.Errorf("statistics for node %d: %w", nodes[i].ID, err)
		}
		report.NodeStats = append(report.NodeStats, entry)
	}

	return report, nil
}

// nodeReport computes one node's statistics entry: the three common
// aggregates fan out concurrently, then the node type selects the channel
// payload.
func (a *Aggregator) nodeReport(ctx context.Context, cadenceID uint, node *models.Node, nowMS int64) (NodeReport, error) {
	var (
		buckets      TaskBuckets
		doneSkipped  DoneSkippedCounts
		disqualified []StatusCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buckets, err = a.store.LeadsOnNode(gctx, node.ID, nowMS)
		return err
	})
	g.Go(func() error {
		var err error
		doneSkipped, err = a.store.DoneAndSkipped(gctx, cadenceID, node.ID)
		return err
	})
	g.Go(func() error {
		var err error
		disqualified, err = a.store.DisqualifiedAndConverted(gctx, cadenceID, node.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return NodeReport{}, err
	}

	entry := NodeReport{
		Name:                     node.Name,
		NodeID:                   node.ID,
		TaskCount:                len(node.Tasks),
		Tasks:                    node.Tasks,
		LeadsOnCurrentNode:       buckets,
		DoneAndSkipped:           doneSkipped,
		DisqualifiedAndConverted: disqualified,
	}

	switch node.Type {
	case models.NodeTypeMail, models.NodeTypeAutomatedMail,
		models.NodeTypeReplyTo, models.NodeTypeAutomatedReplyTo:
		if err := a.resolveMailNode(ctx, node, &entry); err != nil {
			return NodeReport{}, err
		}
	case models.NodeTypeMessage, models.NodeTypeAutomatedMessage:
		if err := a.resolveMessageNode(ctx, node, &entry); err != nil {
			return NodeReport{}, err
		}
	case models.NodeTypeEnd:
		if err := a.resolveEndNode(ctx, node, &entry); err != nil {
			return NodeReport{}, err
		}
	default:
		// Call, data-check and other step kinds carry no channel metrics
	}

	return entry, nil
}

func (a *Aggregator) resolveMailNode(ctx context.Context, node *models.Node, entry *NodeReport) error {
	if node.Data.ABTestEnabled {
		groups, err := a.store.MailMetricsByTemplate(ctx, node.ID)
		if err != nil {
			return err
		}
		entry.ABTestEnabled = true
		entry.Data = groups
		return nil
	}
	metrics, err := a.store.MailMetrics(ctx, node.ID)
	if err != nil {
		return err
	}
	entry.Data = metrics
	return nil
}

func (a *Aggregator) resolveMessageNode(ctx context.Context, node *models.Node, entry *NodeReport) error {
	if node.Data.ABTestEnabled {
		groups, err := a.store.MessageMetricsByTemplate(ctx, node.ID)
		if err != nil {
			return err
		}
		entry.ABTestEnabled = true
		entry.Data = groups
		return nil
	}
	metrics, err := a.store.MessageMetrics(ctx, node.ID)
	if err != nil {
		return err
	}
	entry.Data = metrics
	return nil
}

func (a *Aggregator) resolveEndNode(ctx context.Context, node *models.Node, entry *NodeReport) error {
	if len(node.Data.MovedLeads) == 0 {
		return nil
	}
	count, err := a.store.MovedLeadCount(ctx, node.Data.MovedLeads)
	if err != nil {
		return err
	}
	entry.MovedLeads = &MovedLeadCount{MovedCount: count}
	return nil
}

// NodeStats is the single-node drill-down: pending-task buckets for one
// node grouped by assignee, without cadence context.
func (a *Aggregator) NodeStats(ctx context.Context, nodeID uint) (*NodeActivity, error) {
	if nodeID == 0 {
		return nil, ErrInvalidInput
	}
	nowMS := a.now().UnixMilli()
	buckets, err := a.store.LeadsOnNodeByUser(ctx, nodeID, nowMS)
	if err != nil {
		return nil, err
	}
	return &NodeActivity{LeadsOnCurrentNode: buckets}, nil
}
