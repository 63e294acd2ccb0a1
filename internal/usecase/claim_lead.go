package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/corelend/lead-engine/internal/entity"
)

// claimMaxAttempts bounds the optimistic-lock retry loop. Each retry re-reads
// the lead and re-validates every precondition against the fresh state.
const claimMaxAttempts = 3

// Claim transfers a lead from the shared pool to the claimant. Without force
// the lead must be NEW and unowned; with force any non-terminal state and any
// current owner can be taken over. Safe under concurrent claims of the same
// lead: the ownership write is guarded by the lead's revision, so exactly one
// of two racing claimants wins and the other fails its re-validated
// precondition.
func (uc *AssignmentEngine) Claim(ctx context.Context, leadID, claimantID string, force bool) (*entity.Lead, error) {
	for attempt := 0; attempt < claimMaxAttempts; attempt++ {
		lead, err := uc.Leads.FindByID(ctx, leadID)
		if err != nil {
			return nil, persistenceFailure("load lead", err)
		}
		if lead == nil {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead " + leadID + " not found"}
		}

		claimant, err := uc.Employees.FindByID(ctx, claimantID)
		if err != nil {
			return nil, persistenceFailure("load employee", err)
		}
		if claimant == nil {
			return nil, &DomainError{Code: CodeEmployeeNotFound, Message: "employee " + claimantID + " not found"}
		}

		if !force {
			if lead.Status != entity.StatusNew {
				return nil, &DomainError{
					Code:    CodeInvalidState,
					Message: fmt.Sprintf("lead cannot be claimed in status %s", lead.Status),
				}
			}
			if lead.OwnerID != nil && *lead.OwnerID != claimantID {
				return nil, &DomainError{
					Code:    CodeInvalidState,
					Message: "lead is already assigned to another employee",
				}
			}
		}
		if lead.OwnerID != nil && *lead.OwnerID == claimantID {
			return nil, &DomainError{Code: CodeAlreadyOwned, Message: "lead is already assigned to you"}
		}

		previousOwner := lead.OwnerID
		action := entity.ActionClaimedUnowned
		if previousOwner != nil {
			action = entity.ActionClaimedFromPool
		}

		now := uc.Clock.Now()
		updated, err := uc.Leads.UpdateOwnership(ctx, lead.ID, &claimantID, &now, lead.Revision)
		if errors.Is(err, entity.ErrRevisionConflict) {
			continue
		}
		if err != nil {
			return nil, persistenceFailure("update lead ownership", err)
		}

		event := entity.NewAssignmentEvent(lead.ID, &claimantID, action,
			previousOwner, &claimantID, ownershipNotes(previousOwner, &claimantID))
		if err := uc.History.Append(ctx, event); err != nil {
			return nil, persistenceFailure("append claim history", err)
		}

		uc.notify(ctx, claimantID,
			"Lead claimed",
			fmt.Sprintf("You claimed lead %s (%s).", updated.SequenceNumber, updated.Name),
			CategoryLeadClaimed,
			map[string]string{"lead_id": updated.ID})
		if previousOwner != nil {
			uc.notify(ctx, *previousOwner,
				"Lead claimed by someone else",
				fmt.Sprintf("Lead %s (%s) was claimed by %s.", updated.SequenceNumber, updated.Name, claimant.Name),
				CategoryLeadClaimed,
				map[string]string{"lead_id": updated.ID, "claimed_by": claimantID})
		}

		return updated, nil
	}

	return nil, persistenceFailure("claim lead", entity.ErrRevisionConflict)
}

// Release returns a lead to the pool. Only the current owner may release.
func (uc *AssignmentEngine) Release(ctx context.Context, leadID, employeeID string) (*entity.Lead, error) {
	for attempt := 0; attempt < claimMaxAttempts; attempt++ {
		lead, err := uc.Leads.FindByID(ctx, leadID)
		if err != nil {
			return nil, persistenceFailure("load lead", err)
		}
		if lead == nil {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead " + leadID + " not found"}
		}

		employee, err := uc.Employees.FindByID(ctx, employeeID)
		if err != nil {
			return nil, persistenceFailure("load employee", err)
		}
		if employee == nil {
			return nil, &DomainError{Code: CodeEmployeeNotFound, Message: "employee " + employeeID + " not found"}
		}

		if lead.OwnerID == nil || *lead.OwnerID != employeeID {
			return nil, &DomainError{
				Code:    CodeForbidden,
				Message: "only the current owner can return this lead to the pool",
			}
		}

		updated, err := uc.Leads.UpdateOwnership(ctx, lead.ID, nil, nil, lead.Revision)
		if errors.Is(err, entity.ErrRevisionConflict) {
			continue
		}
		if err != nil {
			return nil, persistenceFailure("update lead ownership", err)
		}

		event := entity.NewAssignmentEvent(lead.ID, &employeeID, entity.ActionReturnedToPool,
			&employeeID, nil, ownershipNotes(&employeeID, nil))
		if err := uc.History.Append(ctx, event); err != nil {
			return nil, persistenceFailure("append release history", err)
		}

		uc.notify(ctx, employeeID,
			"Lead returned to pool",
			fmt.Sprintf("You returned lead %s (%s) to the pool.", updated.SequenceNumber, updated.Name),
			CategoryLeadReturned,
			map[string]string{"lead_id": updated.ID})

		return updated, nil
	}

	return nil, persistenceFailure("release lead", entity.ErrRevisionConflict)
}
