package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/corelend/lead-engine/internal/entity"
)

type TickOutcome string

const (
	OutcomeReassigned           TickOutcome = "reassigned"
	OutcomeNoAvailableEmployees TickOutcome = "no_available_employees"
	OutcomeAlreadyLeastLoaded   TickOutcome = "already_least_loaded"
	OutcomeLeadChanged          TickOutcome = "lead_changed"
	OutcomeError                TickOutcome = "error"
)

// TickReport summarizes one sweep for logging and metrics.
type TickReport struct {
	Scanned    int                 `json:"scanned"`
	Outcomes   map[TickOutcome]int `json:"outcomes"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

const defaultMaxPerTick = 500

// ReassignNeglectedUseCase sweeps for owned, uncontacted leads whose
// assignment aged past the neglect window and reroutes each one to the
// least-loaded eligible employee in the current owner's department. Each sweep
// is stateless and idempotent; per-lead failures are contained.
type ReassignNeglectedUseCase struct {
	Engine        *AssignmentEngine
	NeglectWindow time.Duration
	MaxPerTick    int
}

func NewReassignNeglectedUseCase(engine *AssignmentEngine, neglectWindow time.Duration, maxPerTick int) *ReassignNeglectedUseCase {
	if maxPerTick <= 0 {
		maxPerTick = defaultMaxPerTick
	}
	return &ReassignNeglectedUseCase{
		Engine:        engine,
		NeglectWindow: neglectWindow,
		MaxPerTick:    maxPerTick,
	}
}

// Execute runs one sweep. Cancellation takes effect between leads, never
// mid-lead, so a shutdown cannot leave a transition half-applied.
func (uc *ReassignNeglectedUseCase) Execute(ctx context.Context) (*TickReport, error) {
	report := &TickReport{
		Outcomes:  make(map[TickOutcome]int),
		StartedAt: uc.Engine.Clock.Now(),
	}

	cutoff := report.StartedAt.Add(-uc.NeglectWindow)
	leads, err := uc.Engine.Leads.FindMany(ctx, LeadFilter{
		Statuses:        []entity.LeadStatus{entity.StatusNew, entity.StatusContacted},
		OnlyOwned:       true,
		OnlyUncontacted: true,
		OnlyActive:      true,
		AssignedBefore:  &cutoff,
	}, Pagination{Limit: uc.MaxPerTick})
	if err != nil {
		return nil, persistenceFailure("scan neglected leads", err)
	}

	for _, lead := range leads {
		if ctx.Err() != nil {
			break
		}
		outcome := uc.reassignOne(ctx, lead)
		report.Outcomes[outcome]++
		report.Scanned++
	}

	report.FinishedAt = uc.Engine.Clock.Now()
	return report, nil
}

// reassignOne handles a single neglected lead. It never returns an error: any
// failure is logged and categorized so one bad lead cannot stop the sweep.
func (uc *ReassignNeglectedUseCase) reassignOne(ctx context.Context, lead *entity.Lead) TickOutcome {
	engine := uc.Engine

	owner, err := engine.Employees.FindByID(ctx, *lead.OwnerID)
	if err != nil || owner == nil {
		log.Printf("❌ sweep: lead %s: cannot load owner %s: %v", lead.ID, *lead.OwnerID, err)
		return OutcomeError
	}

	eligible, err := engine.eligibleWorkers(ctx, owner.DepartmentID)
	if err != nil {
		log.Printf("❌ sweep: lead %s: %v", lead.ID, err)
		return OutcomeError
	}
	if len(eligible) == 0 {
		return OutcomeNoAvailableEmployees
	}

	counts, err := engine.Leads.CountActiveByOwner(ctx, employeeIDs(eligible), entity.ActiveStatuses)
	if err != nil {
		log.Printf("❌ sweep: lead %s: count active leads: %v", lead.ID, err)
		return OutcomeError
	}
	// The lead in flight is still counted under the old owner; the comparison
	// must reflect the other leads only.
	if lead.Status.IsActivePipeline() && counts[owner.ID] > 0 {
		counts[owner.ID]--
	}

	winner := LeastLoaded(eligible, counts)
	if winner.ID == owner.ID {
		return OutcomeAlreadyLeastLoaded
	}

	now := engine.Clock.Now()
	updated, err := engine.Leads.UpdateOwnership(ctx, lead.ID, &winner.ID, &now, lead.Revision)
	if errors.Is(err, entity.ErrRevisionConflict) {
		// Someone claimed or contacted the lead since the scan; leave it alone.
		return OutcomeLeadChanged
	}
	if err != nil {
		log.Printf("❌ sweep: lead %s: update ownership: %v", lead.ID, err)
		return OutcomeError
	}

	// Actor is nil: the system reassigned, not an employee.
	event := entity.NewAssignmentEvent(lead.ID, nil, entity.ActionAutoReassigned,
		&owner.ID, &winner.ID, ownershipNotes(&owner.ID, &winner.ID))
	if err := engine.History.Append(ctx, event); err != nil {
		log.Printf("❌ sweep: lead %s reassigned but history append failed: %v", lead.ID, err)
		return OutcomeError
	}

	engine.notify(ctx, winner.ID,
		"Lead reassigned to you",
		fmt.Sprintf("Lead %s (%s) sat uncontacted too long and was rerouted to you.", updated.SequenceNumber, updated.Name),
		CategoryLeadReassigned,
		map[string]string{"lead_id": updated.ID, "previous_owner": owner.ID})
	engine.notify(ctx, owner.ID,
		"Lead reassigned",
		fmt.Sprintf("Lead %s (%s) was reassigned to %s after the contact deadline passed.", updated.SequenceNumber, updated.Name, winner.Name),
		CategoryLeadReassigned,
		map[string]string{"lead_id": updated.ID, "new_owner": winner.ID})

	return OutcomeReassigned
}
