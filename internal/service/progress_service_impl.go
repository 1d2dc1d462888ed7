package service

import (
	"context"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/mfigueroa/sitework/internal/repository"
	"github.com/mfigueroa/sitework/internal/schedule"
)

type progressService struct {
	projects       repository.ProjectRepo
	activities     repository.ActivityRepo
	unitActivities repository.UnitActivityRepo
}

func NewProgressService(
	projects repository.ProjectRepo,
	activities repository.ActivityRepo,
	unitActivities repository.UnitActivityRepo,
) ProgressService {
	return &progressService{
		projects:       projects,
		activities:     activities,
		unitActivities: unitActivities,
	}
}

func (s *progressService) Report(ctx context.Context, projectID string) (*contract.ProgressReport, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	nodes, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	uas, err := s.unitActivities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	unitProgress := make(map[string][]float64)
	for _, ua := range uas {
		unitProgress[ua.ActivityID] = append(unitProgress[ua.ActivityID], ua.Progress)
	}

	progressNodes := make([]schedule.ProgressNode, 0, len(nodes))
	for _, n := range nodes {
		pn := schedule.ProgressNode{
			ID:       n.ID,
			ParentID: n.ParentID,
			Level:    n.Level,
			Weight:   n.Weight,
		}
		if n.IsLeaf() {
			pn.UnitProgress = unitProgress[n.ID]
		}
		progressNodes = append(progressNodes, pn)
	}
	computed := schedule.Compute(progressNodes)

	report := &contract.ProgressReport{
		ProjectID:      p.ID,
		ProjectShortID: p.ShortID,
		ProjectName:    p.Name,
		ProjectStatus:  string(p.Status),
		Overall:        computed.Overall,
	}

	// Rows follow display order: depth-first through the hierarchy, siblings
	// in their stored order.
	tree := domain.BuildTree(nodes)
	var walk func(n *domain.ActivityNode)
	walk = func(n *domain.ActivityNode) {
		report.Rows = append(report.Rows, contract.ProgressRow{
			ID:           n.ID,
			ParentID:     n.ParentID,
			Name:         n.Name,
			Level:        string(n.Level),
			Status:       string(n.Status),
			Progress:     computed.Nodes[n.ID],
			PlannedStart: n.PlannedStart,
			PlannedEnd:   n.PlannedEnd,
		})
		for _, c := range tree.Children[n.ID] {
			walk(c)
		}
	}
	for _, r := range tree.Roots {
		walk(r)
	}

	return report, nil
}
