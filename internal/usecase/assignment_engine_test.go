package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corelend/lead-engine/internal/entity"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(leads *MockLeadRepository, employees *MockEmployeeRepository, history *MockHistoryRepository, notifier *MockNotifier) *AssignmentEngine {
	return NewAssignmentEngine(leads, employees, history, notifier, fixedClock{t: testNow})
}

func leadInput(name string) CreateLeadInput {
	return CreateLeadInput{
		Name:            name,
		Email:           name + "@example.com",
		LoanAmountCents: 30_000_000,
		CreditScore:     700,
	}
}

func TestCreateAndAssignUnowned(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)
	history := new(MockHistoryRepository)
	notifier := new(MockNotifier)

	leads.On("Create", ctx, mock.Anything).Return(nil)

	engine := newTestEngine(leads, employees, history, notifier)
	lead, err := engine.CreateAndAssign(ctx, leadInput("maria"))

	assert.NoError(t, err)
	assert.Nil(t, lead.OwnerID)
	assert.Nil(t, lead.AssignedAt)
	employees.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAndAssignPicksLeastLoaded(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)
	history := new(MockHistoryRepository)
	notifier := new(MockNotifier)

	e1 := activeEmployee("e1", "d1")
	e2 := activeEmployee("e2", "d1")
	employees.On("FindMany", ctx, EmployeeFilter{Status: entity.EmployeeStatusActive, OnlyActive: true}).
		Return([]*entity.Employee{e1, e2}, nil)
	leads.On("CountActiveByOwner", ctx, []string{"e1", "e2"}, entity.ActiveStatuses).
		Return(map[string]int{"e1": 3, "e2": 1}, nil)
	leads.On("Create", ctx, mock.Anything).Return(nil)
	notifier.On("Send", ctx, "e2", mock.Anything, mock.Anything, CategoryLeadAssigned, mock.Anything).Return(nil)

	input := leadInput("maria")
	input.AutoAssign = true

	engine := newTestEngine(leads, employees, history, notifier)
	lead, err := engine.CreateAndAssign(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, "e2", *lead.OwnerID)
	assert.Equal(t, testNow, *lead.AssignedAt)
	// Plain creation is never audited, even when an owner was chosen.
	history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestCreateAndAssignEmptyRosterCreatesUnowned(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)
	history := new(MockHistoryRepository)
	notifier := new(MockNotifier)

	employees.On("FindMany", ctx, mock.Anything).Return([]*entity.Employee{}, nil)
	leads.On("Create", ctx, mock.Anything).Return(nil)

	input := leadInput("maria")
	input.AutoAssign = true

	engine := newTestEngine(leads, employees, history, notifier)
	lead, err := engine.CreateAndAssign(ctx, input)

	assert.NoError(t, err)
	assert.Nil(t, lead.OwnerID)
}

func TestCreateAndAssignValidation(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)

	engine := newTestEngine(leads, new(MockEmployeeRepository), new(MockHistoryRepository), new(MockNotifier))
	_, err := engine.CreateAndAssign(ctx, CreateLeadInput{Email: "x@example.com"})

	assert.Equal(t, CodeValidation, DomainCode(err))
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBulkAssignRoundRobinRotation(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)
	history := new(MockHistoryRepository)
	notifier := new(MockNotifier)

	w1 := activeEmployee("w1", "d1")
	w2 := activeEmployee("w2", "d1")
	employees.On("FindMany", ctx, mock.Anything).Return([]*entity.Employee{w1, w2}, nil)
	leads.On("Create", ctx, mock.Anything).Return(nil)
	history.On("Append", ctx, mock.MatchedBy(func(ev *entity.AssignmentEvent) bool {
		return ev.Action == entity.ActionImported && ev.PreviousOwnerID == nil && ev.NewOwnerID != nil
	})).Return(nil)
	notifier.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything, CategoryLeadAssigned, mock.Anything).Return(nil)

	input := BulkAssignInput{
		AutoAssign: true,
		ActorID:    "importer-1",
		Leads: []CreateLeadInput{
			leadInput("a"), leadInput("b"), leadInput("c"), leadInput("d"), leadInput("e"),
		},
	}

	engine := newTestEngine(leads, employees, history, notifier)
	out, err := engine.BulkAssign(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, 5, out.AssignedCount)

	var owners []string
	perOwner := map[string]int{}
	for _, lead := range out.Created {
		owners = append(owners, *lead.OwnerID)
		perOwner[*lead.OwnerID]++
		assert.Equal(t, testNow, *lead.AssignedAt)
	}
	assert.Equal(t, []string{"w1", "w2", "w1", "w2", "w1"}, owners)

	// Fairness: per-worker counts in one batch differ by at most 1.
	assert.Equal(t, 3, perOwner["w1"])
	assert.Equal(t, 2, perOwner["w2"])

	history.AssertNumberOfCalls(t, "Append", 5)
	notifier.AssertNumberOfCalls(t, "Send", 5)
}

func TestBulkAssignNoEligibleWorkers(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)

	admin := activeEmployee("admin", "d1")
	admin.RoleName = "Administrator"
	employees.On("FindMany", ctx, mock.Anything).Return([]*entity.Employee{admin}, nil)

	engine := newTestEngine(leads, employees, new(MockHistoryRepository), new(MockNotifier))
	_, err := engine.BulkAssign(ctx, BulkAssignInput{
		AutoAssign: true,
		Leads:      []CreateLeadInput{leadInput("a")},
	})

	assert.Equal(t, CodeNoEligibleWorkers, DomainCode(err))
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBulkAssignWithoutAutoAssign(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	employees := new(MockEmployeeRepository)
	history := new(MockHistoryRepository)

	leads.On("Create", ctx, mock.Anything).Return(nil)

	engine := newTestEngine(leads, employees, history, new(MockNotifier))
	out, err := engine.BulkAssign(ctx, BulkAssignInput{
		Leads: []CreateLeadInput{leadInput("a"), leadInput("b")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, out.AssignedCount)
	assert.Len(t, out.Created, 2)
	for _, lead := range out.Created {
		assert.Nil(t, lead.OwnerID)
	}
	employees.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
