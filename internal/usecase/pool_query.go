package usecase

import (
	"context"

	"github.com/corelend/lead-engine/internal/entity"
)

// reassignedWindowDays bounds the "reassigned" pool view to leads rerouted by
// the scheduler within the trailing month.
const reassignedWindowDays = 30

// ListPool exposes the claimable-leads read model. Every row is annotated with
// whether it can be taken without force.
func (uc *AssignmentEngine) ListPool(ctx context.Context, filter PoolFilter, p Pagination) ([]*PoolLead, error) {
	var leads []*entity.Lead
	var err error

	switch filter {
	case PoolUnassigned:
		leads, err = uc.Leads.FindMany(ctx, LeadFilter{
			Statuses:        []entity.LeadStatus{entity.StatusNew},
			OnlyUnowned:     true,
			OnlyUncontacted: true,
			OnlyActive:      true,
		}, p)
	case PoolAvailable:
		// Owner may or may not be set; owned ones are still claimable with force.
		leads, err = uc.Leads.FindMany(ctx, LeadFilter{
			Statuses:        []entity.LeadStatus{entity.StatusNew},
			OnlyUncontacted: true,
			OnlyActive:      true,
		}, p)
	case PoolReassigned:
		since := uc.Clock.Now().AddDate(0, 0, -reassignedWindowDays)
		var ids []string
		ids, err = uc.History.LeadIDsByAction(ctx, entity.ActionAutoReassigned, since)
		if err != nil {
			return nil, persistenceFailure("list reassigned lead ids", err)
		}
		if len(ids) == 0 {
			return []*PoolLead{}, nil
		}
		leads, err = uc.Leads.FindMany(ctx, LeadFilter{
			IDs:             ids,
			Statuses:        []entity.LeadStatus{entity.StatusNew},
			OnlyUncontacted: true,
			OnlyActive:      true,
		}, p)
	case PoolAll, "":
		leads, err = uc.Leads.FindMany(ctx, LeadFilter{OnlyActive: true}, p)
	default:
		return nil, &DomainError{Code: CodeValidation, Message: "unknown pool filter: " + string(filter)}
	}

	if err != nil {
		return nil, persistenceFailure("list pool leads", err)
	}

	out := make([]*PoolLead, 0, len(leads))
	for _, lead := range leads {
		out = append(out, &PoolLead{Lead: lead, CanBeTaken: lead.CanBeTaken()})
	}
	return out, nil
}
