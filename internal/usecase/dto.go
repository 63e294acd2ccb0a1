package usecase

import "github.com/corelend/lead-engine/internal/entity"

type CreateLeadInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	LoanAmountCents int64  `json:"loan_amount_cents"`
	CreditScore     int    `json:"credit_score"`
	AutoAssign      bool   `json:"auto_assign"`
}

type BulkAssignInput struct {
	Leads      []CreateLeadInput `json:"leads"`
	AutoAssign bool              `json:"auto_assign"`
	// ActorID identifies the employee who ran the import; empty means system.
	ActorID string `json:"actor_id"`
}

type BulkAssignOutput struct {
	Created       []*entity.Lead `json:"created"`
	AssignedCount int            `json:"assigned_count"`
}

// PoolFilter selects one of the pool read-model views.
type PoolFilter string

const (
	PoolAll        PoolFilter = "all"
	PoolUnassigned PoolFilter = "unassigned"
	PoolAvailable  PoolFilter = "available"
	PoolReassigned PoolFilter = "reassigned"
)

// PoolLead annotates a lead with its claimability for pool listings.
type PoolLead struct {
	*entity.Lead
	CanBeTaken bool `json:"can_be_taken"`
}
