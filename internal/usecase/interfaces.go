package usecase

import (
	"context"
	"time"

	"github.com/corelend/lead-engine/internal/entity"
)

// LeadFilter narrows FindMany queries. Zero values mean "don't filter".
type LeadFilter struct {
	Statuses        []entity.LeadStatus
	OwnerID         *string
	OnlyOwned       bool
	OnlyUnowned     bool
	OnlyUncontacted bool
	OnlyActive      bool
	AssignedBefore  *time.Time
	IDs             []string
}

type Pagination struct {
	Limit  int
	Offset int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	// FindByID returns (nil, nil) when no lead matches.
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	FindMany(ctx context.Context, filter LeadFilter, p Pagination) ([]*entity.Lead, error)
	// UpdateOwnership swaps the owner/assignedAt pair guarded by the lead's
	// revision. Returns entity.ErrRevisionConflict when the revision moved.
	UpdateOwnership(ctx context.Context, leadID string, ownerID *string, assignedAt *time.Time, expectedRevision int64) (*entity.Lead, error)
	// CountActiveByOwner returns active-pipeline lead counts keyed by owner id.
	// Owners with no matching leads are absent from the map.
	CountActiveByOwner(ctx context.Context, ownerIDs []string, statuses []entity.LeadStatus) (map[string]int, error)
}

type EmployeeFilter struct {
	Status       string
	OnlyActive   bool
	DepartmentID string
}

type EmployeeRepositoryInterface interface {
	// FindByID returns (nil, nil) when no employee matches.
	FindByID(ctx context.Context, id string) (*entity.Employee, error)
	FindMany(ctx context.Context, filter EmployeeFilter) ([]*entity.Employee, error)
}

// HistoryRepositoryInterface is write-mostly: the engine only appends events
// and reads back lead ids for the pool's "reassigned" view.
type HistoryRepositoryInterface interface {
	Append(ctx context.Context, event *entity.AssignmentEvent) error
	LeadIDsByAction(ctx context.Context, action entity.AssignmentAction, since time.Time) ([]string, error)
}

// NotificationSink delivers a message to an employee, best-effort. Send
// failures never roll back the assignment that triggered them.
type NotificationSink interface {
	Send(ctx context.Context, employeeID, title, message, category string, metadata map[string]string) error
}

// Clock is injectable so the neglect-window comparison is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
