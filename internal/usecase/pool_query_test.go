package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corelend/lead-engine/internal/entity"
)

func TestListPoolUnassignedAnnotatesClaimability(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)

	fresh := pooledLead("lead-1")
	stale := pooledLead("lead-2")
	stale.Status = entity.StatusContacted

	leads.On("FindMany", ctx, mock.MatchedBy(func(f LeadFilter) bool {
		return f.OnlyUnowned && f.OnlyUncontacted && f.OnlyActive
	}), Pagination{Limit: 50}).Return([]*entity.Lead{fresh, stale}, nil)

	engine := newTestEngine(leads, new(MockEmployeeRepository), new(MockHistoryRepository), new(MockNotifier))
	out, err := engine.ListPool(ctx, PoolUnassigned, Pagination{Limit: 50})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.True(t, out[0].CanBeTaken)
	assert.False(t, out[1].CanBeTaken)
}

func TestListPoolReassignedJoinsHistory(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	history := new(MockHistoryRepository)

	history.On("LeadIDsByAction", ctx, entity.ActionAutoReassigned, mock.Anything).
		Return([]string{"lead-1", "lead-2"}, nil)
	leads.On("FindMany", ctx, mock.MatchedBy(func(f LeadFilter) bool {
		return len(f.IDs) == 2 && f.OnlyUncontacted && f.OnlyActive
	}), mock.Anything).Return([]*entity.Lead{pooledLead("lead-1")}, nil)

	engine := newTestEngine(leads, new(MockEmployeeRepository), history, new(MockNotifier))
	out, err := engine.ListPool(ctx, PoolReassigned, Pagination{})

	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListPoolReassignedEmptyHistory(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	history := new(MockHistoryRepository)

	history.On("LeadIDsByAction", ctx, entity.ActionAutoReassigned, mock.Anything).
		Return([]string{}, nil)

	engine := newTestEngine(leads, new(MockEmployeeRepository), history, new(MockNotifier))
	out, err := engine.ListPool(ctx, PoolReassigned, Pagination{})

	assert.NoError(t, err)
	assert.Empty(t, out)
	leads.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPoolUnknownFilter(t *testing.T) {
	engine := newTestEngine(new(MockLeadRepository), new(MockEmployeeRepository), new(MockHistoryRepository), new(MockNotifier))
	_, err := engine.ListPool(context.Background(), "bogus", Pagination{})

	assert.Equal(t, CodeValidation, DomainCode(err))
}
