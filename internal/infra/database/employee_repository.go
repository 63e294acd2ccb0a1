package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/corelend/lead-engine/internal/entity"
	"github.com/corelend/lead-engine/internal/usecase"
)

// EmployeeRepository reads the roster maintained by the external HR service.
// The engine never writes employee rows.
type EmployeeRepository struct {
	DB *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

const employeeColumns = `e.id, e.name, e.email, e.status, e.is_active, e.department_id, e.role_id, COALESCE(r.name, '')`

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE e.id = $1
	`

	emp, err := scanEmployee(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *EmployeeRepository) FindMany(ctx context.Context, filter usecase.EmployeeFilter) ([]*entity.Employee, error) {
	conds := []string{"1=1"}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "e.status = "+arg(filter.Status))
	}
	if filter.OnlyActive {
		conds = append(conds, "e.is_active = TRUE")
	}
	if filter.DepartmentID != "" {
		conds = append(conds, "e.department_id = "+arg(filter.DepartmentID))
	}

	// Stable order: tie-breaks in least-loaded selection and the rotation
	// cursor both depend on a deterministic roster order.
	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY e.created_at ASC, e.id ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var emp entity.Employee
	var email sql.NullString

	err := row.Scan(
		&emp.ID,
		&emp.Name,
		&email,
		&emp.Status,
		&emp.IsActive,
		&emp.DepartmentID,
		&emp.RoleID,
		&emp.RoleName,
	)
	if err != nil {
		return nil, err
	}

	emp.Email = email.String
	return &emp, nil
}
