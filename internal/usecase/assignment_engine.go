package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/corelend/lead-engine/internal/entity"
)

// Notification categories consumed by the queue worker.
const (
	CategoryLeadAssigned   = "LEAD_ASSIGNED"
	CategoryLeadClaimed    = "LEAD_CLAIMED"
	CategoryLeadReturned   = "LEAD_RETURNED"
	CategoryLeadReassigned = "LEAD_REASSIGNED"
)

// AssignmentEngine owns every ownership transition: creation assignment, bulk
// import, voluntary claims and releases, and the pool read model. The
// reassignment sweep reuses its primitives.
type AssignmentEngine struct {
	Leads     LeadRepositoryInterface
	Employees EmployeeRepositoryInterface
	History   HistoryRepositoryInterface
	Notifier  NotificationSink
	Clock     Clock
}

func NewAssignmentEngine(
	leads LeadRepositoryInterface,
	employees EmployeeRepositoryInterface,
	history HistoryRepositoryInterface,
	notifier NotificationSink,
	clock Clock,
) *AssignmentEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AssignmentEngine{
		Leads:     leads,
		Employees: employees,
		History:   history,
		Notifier:  notifier,
		Clock:     clock,
	}
}

// CreateAndAssign creates a single lead, optionally routed to the least-loaded
// eligible employee. The plain create path is not audited even when an owner
// is chosen; only transitions and imports write history.
func (uc *AssignmentEngine) CreateAndAssign(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := entity.NewLead(input.Name, input.Email, input.Phone, input.LoanAmountCents, input.CreditScore)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	if input.AutoAssign {
		eligible, err := uc.eligibleWorkers(ctx, "")
		if err != nil {
			return nil, err
		}
		// An empty roster is recoverable here: the lead is created unowned
		// rather than dropped.
		if len(eligible) > 0 {
			counts, err := uc.Leads.CountActiveByOwner(ctx, employeeIDs(eligible), entity.ActiveStatuses)
			if err != nil {
				return nil, persistenceFailure("count active leads", err)
			}
			worker := LeastLoaded(eligible, counts)
			now := uc.Clock.Now()
			lead.OwnerID = &worker.ID
			lead.AssignedAt = &now
		}
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, persistenceFailure("create lead", err)
	}

	if lead.OwnerID != nil {
		uc.notify(ctx, *lead.OwnerID,
			"New lead assigned",
			fmt.Sprintf("Lead %s (%s) was assigned to you.", lead.SequenceNumber, lead.Name),
			CategoryLeadAssigned,
			map[string]string{"lead_id": lead.ID})
	}

	return lead, nil
}

// BulkAssign imports a batch of leads, spreading them round-robin over the
// eligible roster computed once for the whole batch. Every assigned import is
// audited with an IMPORTED event.
func (uc *AssignmentEngine) BulkAssign(ctx context.Context, input BulkAssignInput) (*BulkAssignOutput, error) {
	out := &BulkAssignOutput{Created: make([]*entity.Lead, 0, len(input.Leads))}
	if len(input.Leads) == 0 {
		return out, nil
	}

	for i, in := range input.Leads {
		if errs := ValidateCreateLeadInput(in); len(errs) > 0 {
			return nil, &DomainError{
				Code:    CodeValidation,
				Message: fmt.Sprintf("lead %d: %s", i, validationFailed(errs).Message),
			}
		}
	}

	var eligible []*entity.Employee
	if input.AutoAssign {
		var err error
		eligible, err = uc.eligibleWorkers(ctx, "")
		if err != nil {
			return nil, err
		}
		if len(eligible) == 0 {
			return nil, &DomainError{
				Code:    CodeNoEligibleWorkers,
				Message: "no eligible workers available for auto-assignment",
			}
		}
	}

	var actor *string
	if input.ActorID != "" {
		actor = &input.ActorID
	}

	cursor := 0
	for _, in := range input.Leads {
		lead, err := entity.NewLead(in.Name, in.Email, in.Phone, in.LoanAmountCents, in.CreditScore)
		if err != nil {
			return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
		}

		var worker *entity.Employee
		if input.AutoAssign {
			worker, cursor = NextInRotation(eligible, cursor)
			now := uc.Clock.Now()
			lead.OwnerID = &worker.ID
			lead.AssignedAt = &now
		}

		if err := uc.Leads.Create(ctx, lead); err != nil {
			return nil, persistenceFailure("create imported lead", err)
		}

		if worker != nil {
			event := entity.NewAssignmentEvent(lead.ID, actor, entity.ActionImported,
				nil, &worker.ID, ownershipNotes(nil, &worker.ID))
			if err := uc.History.Append(ctx, event); err != nil {
				return nil, persistenceFailure("append import history", err)
			}
			uc.notify(ctx, worker.ID,
				"New lead assigned",
				fmt.Sprintf("Lead %s (%s) was imported and assigned to you.", lead.SequenceNumber, lead.Name),
				CategoryLeadAssigned,
				map[string]string{"lead_id": lead.ID})
			out.AssignedCount++
		}

		out.Created = append(out.Created, lead)
	}

	return out, nil
}

// eligibleWorkers loads the active roster (optionally restricted to one
// department) and applies the distribution eligibility filter.
func (uc *AssignmentEngine) eligibleWorkers(ctx context.Context, departmentID string) ([]*entity.Employee, error) {
	workers, err := uc.Employees.FindMany(ctx, EmployeeFilter{
		Status:       entity.EmployeeStatusActive,
		OnlyActive:   true,
		DepartmentID: departmentID,
	})
	if err != nil {
		return nil, persistenceFailure("list employees", err)
	}
	return FilterEligible(workers), nil
}

// notify delivers a best-effort notification; failures are logged and never
// propagated to the assignment that triggered them.
func (uc *AssignmentEngine) notify(ctx context.Context, employeeID, title, message, category string, metadata map[string]string) {
	if uc.Notifier == nil {
		return
	}
	if err := uc.Notifier.Send(ctx, employeeID, title, message, category, metadata); err != nil {
		log.Printf("⚠️ notification to employee %s failed: %v", employeeID, err)
	}
}

type ownershipSnapshot struct {
	Before *string `json:"before"`
	After  *string `json:"after"`
}

// ownershipNotes serializes the before/after owner snapshot into the audit
// record's free-text field.
func ownershipNotes(before, after *string) string {
	raw, err := json.Marshal(ownershipSnapshot{Before: before, After: after})
	if err != nil {
		return ""
	}
	return string(raw)
}
