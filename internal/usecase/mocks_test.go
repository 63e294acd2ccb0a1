package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/corelend/lead-engine/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindMany(ctx context.Context, filter LeadFilter, p Pagination) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateOwnership(ctx context.Context, leadID string, ownerID *string, assignedAt *time.Time, expectedRevision int64) (*entity.Lead, error) {
	args := m.Called(ctx, leadID, ownerID, assignedAt, expectedRevision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) CountActiveByOwner(ctx context.Context, ownerIDs []string, statuses []entity.LeadStatus) (map[string]int, error) {
	args := m.Called(ctx, ownerIDs, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockEmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindMany(ctx context.Context, filter EmployeeFilter) ([]*entity.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Employee), args.Error(1)
}

// MockHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, event *entity.AssignmentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockHistoryRepository) LeadIDsByAction(ctx context.Context, action entity.AssignmentAction, since time.Time) ([]string, error) {
	args := m.Called(ctx, action, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, employeeID, title, message, category string, metadata map[string]string) error {
	args := m.Called(ctx, employeeID, title, message, category, metadata)
	return args.Error(0)
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func activeEmployee(id, department string) *entity.Employee {
	return &entity.Employee{
		ID:           id,
		Name:         "Employee " + id,
		Email:        id + "@corelend.io",
		Status:       entity.EmployeeStatusActive,
		IsActive:     true,
		DepartmentID: department,
		RoleID:       "role-officer",
		RoleName:     "Loan Officer",
	}
}
