package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	StatusNew         LeadStatus = "NEW"
	StatusContacted   LeadStatus = "CONTACTED"
	StatusQualified   LeadStatus = "QUALIFIED"
	StatusApplication LeadStatus = "APPLICATION"
	StatusApproved    LeadStatus = "APPROVED"
	StatusRejected    LeadStatus = "REJECTED"
	StatusClosed      LeadStatus = "CLOSED"
	StatusJunk        LeadStatus = "JUNK"
	StatusReal        LeadStatus = "REAL"
)

// ActiveStatuses are the pipeline states that count toward an employee's workload.
var ActiveStatuses = []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusApplication}

func (s LeadStatus) IsActivePipeline() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func (s LeadStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusClosed || s == StatusJunk
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// DerivePriority tags a lead at creation time from loan amount and credit score.
// It is never recomputed afterwards.
func DerivePriority(loanAmountCents int64, creditScore int) Priority {
	switch {
	case loanAmountCents >= 75_000_000 && creditScore >= 740:
		return PriorityUrgent
	case loanAmountCents >= 75_000_000 || creditScore >= 740:
		return PriorityHigh
	case loanAmountCents >= 25_000_000 || creditScore >= 640:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ErrRevisionConflict is returned by lead stores when an ownership update lost an
// optimistic-lock race and the caller must re-read the lead before retrying.
var ErrRevisionConflict = errors.New("lead revision conflict")

type Lead struct {
	ID              string     `json:"id"`
	SequenceNumber  string     `json:"sequence_number"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	LoanAmountCents int64      `json:"loan_amount_cents"`
	CreditScore     int        `json:"credit_score"`
	Status          LeadStatus `json:"status"`
	Priority        Priority   `json:"priority"`
	OwnerID         *string    `json:"owner_id,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	ContactedAt     *time.Time `json:"contacted_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	Revision        int64      `json:"revision"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewLead builds an unowned lead in the NEW state with its priority derived once.
func NewLead(name, email, phone string, loanAmountCents int64, creditScore int) (*Lead, error) {
	lead := &Lead{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Phone:           phone,
		LoanAmountCents: loanAmountCents,
		CreditScore:     creditScore,
		Status:          StatusNew,
		Priority:        DerivePriority(loanAmountCents, creditScore),
		IsActive:        true,
		Revision:        1,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" && l.Phone == "" {
		return errors.New("email or phone is required")
	}
	if l.LoanAmountCents < 0 {
		return errors.New("loan amount cannot be negative")
	}
	// Invariant: assigned_at is set exactly when an owner is set.
	if (l.OwnerID == nil) != (l.AssignedAt == nil) {
		return errors.New("owner and assigned_at must be set together")
	}
	return nil
}

func (l *Lead) IsOwned() bool {
	return l.OwnerID != nil
}

// CanBeTaken reports whether the lead is claimable from the pool without force.
func (l *Lead) CanBeTaken() bool {
	return l.Status == StatusNew
}
