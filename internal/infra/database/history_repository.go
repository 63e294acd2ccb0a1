package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/corelend/lead-engine/internal/entity"
)

// HistoryRepository persists the append-only assignment audit trail. No
// update or delete is exposed; events are immutable once written.
type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Append(ctx context.Context, event *entity.AssignmentEvent) error {
	query := `
		INSERT INTO lead_assignment_events (
			id, lead_id, actor_id, action, previous_owner_id, new_owner_id, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		event.ID,
		event.LeadID,
		event.ActorID,
		string(event.Action),
		event.PreviousOwnerID,
		event.NewOwnerID,
		event.Notes,
		event.CreatedAt,
	)
	return err
}

func (r *HistoryRepository) LeadIDsByAction(ctx context.Context, action entity.AssignmentAction, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT lead_id
		FROM lead_assignment_events
		WHERE action = $1 AND created_at >= $2
	`

	rows, err := r.DB.QueryContext(ctx, query, string(action), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
