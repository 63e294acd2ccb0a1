package entity

import "strings"

const EmployeeStatusActive = "ACTIVE"

// Employee is an assignment target. Role and department live in external CRUD
// services; the engine only reads the denormalized fields it needs.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	IsActive     bool   `json:"is_active"`
	DepartmentID string `json:"department_id"`
	RoleID       string `json:"role_id"`
	RoleName     string `json:"role_name"`
}

// EligibleForDistribution reports whether automatic routing may pick this
// employee. Administrators can still be targeted manually, never automatically.
func (e *Employee) EligibleForDistribution() bool {
	return e.Status == EmployeeStatusActive &&
		e.IsActive &&
		!strings.Contains(e.RoleName, "Administrator")
}
