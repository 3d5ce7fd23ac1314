package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"compass/pkg/domain"
)

// PostgresStore persists the audit trail in PostgreSQL. Append-only, same
// contract as the memory store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var userID any
	if !event.UserID.IsNil() {
		userID = uuid.UUID(event.UserID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events
			(occurred_at, action, user_id, time_window, persona_id, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.Timestamp, string(event.Action), userID,
		string(event.TimeWindow), event.PersonaID, event.Reason, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, action, user_id, time_window, persona_id, reason, request_id
		FROM audit_events
		WHERE user_id = $1
		ORDER BY occurred_at`,
		uuid.UUID(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e      Event
			action string
			uid    uuid.UUID
			window string
		)
		if err := rows.Scan(&e.Timestamp, &action, &uid, &window, &e.PersonaID, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		e.UserID = domain.UserID(uid)
		e.TimeWindow = domain.TimeWindow(window)
		out = append(out, e)
	}
	return out, rows.Err()
}
