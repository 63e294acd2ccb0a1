package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/corelend/lead-engine/internal/entity"
	"github.com/corelend/lead-engine/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, sequence_number, name, email, phone, loan_amount_cents, credit_score,
		status, priority, owner_id, assigned_at, contacted_at, is_active, revision, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, sequence_number, name, email, phone, loan_amount_cents, credit_score,
			status, priority, owner_id, assigned_at, is_active, revision, created_at, updated_at
		) VALUES (
			$1,
			'LD-' || lpad(nextval('lead_seq')::text, 6, '0'),
			$2, NULLIF($3, ''), NULLIF($4, ''), $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING sequence_number
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.LoanAmountCents,
		lead.CreditScore,
		string(lead.Status),
		string(lead.Priority),
		lead.OwnerID,
		lead.AssignedAt,
		lead.IsActive,
		lead.Revision,
		lead.CreatedAt,
		lead.UpdatedAt,
	).Scan(&lead.SequenceNumber)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) FindMany(ctx context.Context, filter usecase.LeadFilter, p usecase.Pagination) ([]*entity.Lead, error) {
	conds := []string{"1=1"}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		conds = append(conds, "status = ANY("+arg(pq.Array(statusStrings(filter.Statuses)))+")")
	}
	if filter.OwnerID != nil {
		conds = append(conds, "owner_id = "+arg(*filter.OwnerID))
	}
	if filter.OnlyOwned {
		conds = append(conds, "owner_id IS NOT NULL")
	}
	if filter.OnlyUnowned {
		conds = append(conds, "owner_id IS NULL")
	}
	if filter.OnlyUncontacted {
		conds = append(conds, "contacted_at IS NULL")
	}
	if filter.OnlyActive {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.AssignedBefore != nil {
		conds = append(conds, "assigned_at <= "+arg(*filter.AssignedBefore))
	}
	if len(filter.IDs) > 0 {
		conds = append(conds, "id = ANY("+arg(pq.Array(filter.IDs))+")")
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at ASC, id ASC`
	if p.Limit > 0 {
		query += " LIMIT " + arg(p.Limit)
	}
	if p.Offset > 0 {
		query += " OFFSET " + arg(p.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateOwnership is the engine's compare-and-swap: the UPDATE only applies
// when the revision still matches what the caller read, so two concurrent
// transitions on the same lead can never both succeed.
func (r *LeadRepository) UpdateOwnership(ctx context.Context, leadID string, ownerID *string, assignedAt *time.Time, expectedRevision int64) (*entity.Lead, error) {
	query := `
		UPDATE leads
		SET owner_id = $2, assigned_at = $3, revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $4
		RETURNING ` + leadColumns

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, leadID, ownerID, assignedAt, expectedRevision))
	if err == sql.ErrNoRows {
		return nil, entity.ErrRevisionConflict
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) CountActiveByOwner(ctx context.Context, ownerIDs []string, statuses []entity.LeadStatus) (map[string]int, error) {
	counts := make(map[string]int, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT owner_id, COUNT(*)
		FROM leads
		WHERE owner_id = ANY($1) AND status = ANY($2) AND is_active = TRUE
		GROUP BY owner_id
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ownerIDs), pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID string
		var count int
		if err := rows.Scan(&ownerID, &count); err != nil {
			return nil, err
		}
		counts[ownerID] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var email, phone, ownerID sql.NullString
	var assignedAt, contactedAt sql.NullTime
	var status, priority string

	err := row.Scan(
		&lead.ID,
		&lead.SequenceNumber,
		&lead.Name,
		&email,
		&phone,
		&lead.LoanAmountCents,
		&lead.CreditScore,
		&status,
		&priority,
		&ownerID,
		&assignedAt,
		&contactedAt,
		&lead.IsActive,
		&lead.Revision,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.Status = entity.LeadStatus(status)
	lead.Priority = entity.Priority(priority)
	if ownerID.Valid {
		lead.OwnerID = &ownerID.String
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		lead.AssignedAt = &t
	}
	if contactedAt.Valid {
		t := contactedAt.Time
		lead.ContactedAt = &t
	}
	return &lead, nil
}

func statusStrings(statuses []entity.LeadStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
