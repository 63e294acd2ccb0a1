package entity

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentAction string

const (
	ActionImported        AssignmentAction = "IMPORTED"
	ActionClaimedFromPool AssignmentAction = "CLAIMED_FROM_POOL"
	ActionClaimedUnowned  AssignmentAction = "CLAIMED_UNASSIGNED"
	ActionReturnedToPool  AssignmentAction = "RETURNED_TO_POOL"
	ActionAutoReassigned  AssignmentAction = "AUTO_REASSIGNED"
)

// AssignmentEvent is an append-only audit entry. One event per ownership
// transition; never mutated or deleted.
type AssignmentEvent struct {
	ID              string           `json:"id"`
	LeadID          string           `json:"lead_id"`
	ActorID         *string          `json:"actor_id,omitempty"` // nil means the system acted
	Action          AssignmentAction `json:"action"`
	PreviousOwnerID *string          `json:"previous_owner_id,omitempty"`
	NewOwnerID      *string          `json:"new_owner_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func NewAssignmentEvent(leadID string, actorID *string, action AssignmentAction, prevOwner, newOwner *string, notes string) *AssignmentEvent {
	return &AssignmentEvent{
		ID:              uuid.New().String(),
		LeadID:          leadID,
		ActorID:         actorID,
		Action:          action,
		PreviousOwnerID: prevOwner,
		NewOwnerID:      newOwner,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
}
