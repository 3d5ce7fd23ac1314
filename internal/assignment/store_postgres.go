package assignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"compass/pkg/domain"
)

// PostgresStore persists assignments in PostgreSQL. Evidence is stored as
// JSONB so the full audit trail stays queryable without extra tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, a Assignment) error {
	evidence, err := json.Marshal(a.Evidence)
	if err != nil {
		return fmt.Errorf("marshal assignment evidence: %w", err)
	}

	var priority sql.NullInt64
	if a.Priority != nil {
		priority = sql.NullInt64{Int64: int64(*a.Priority), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assignments
			(id, user_id, time_window, persona_id, priority, qualifying_persona_ids, reason, assigned_at, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(a.ID), uuid.UUID(a.UserID), string(a.TimeWindow), a.PersonaID,
		priority, pq.Array(a.QualifyingPersonaIDs), a.Reason, a.AssignedAt, evidence,
	)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindLatest(ctx context.Context, userID domain.UserID, window domain.TimeWindow) (Assignment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, time_window, persona_id, priority, qualifying_persona_ids, reason, assigned_at, evidence
		FROM assignments
		WHERE user_id = $1 AND time_window = $2
		ORDER BY assigned_at DESC, id DESC
		LIMIT 1`,
		uuid.UUID(userID), string(window),
	)

	var (
		a          Assignment
		id         uuid.UUID
		uid        uuid.UUID
		tw         string
		priority   sql.NullInt64
		qualifying []string
		evidence   []byte
	)
	err := row.Scan(&id, &uid, &tw, &a.PersonaID, &priority, pq.Array(&qualifying), &a.Reason, &a.AssignedAt, &evidence)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, fmt.Errorf("find latest assignment: %w", err)
	}

	a.ID = domain.AssignmentID(id)
	a.UserID = domain.UserID(uid)
	a.TimeWindow = domain.TimeWindow(tw)
	if priority.Valid {
		p := int(priority.Int64)
		a.Priority = &p
	}
	a.QualifyingPersonaIDs = qualifying
	if a.QualifyingPersonaIDs == nil {
		a.QualifyingPersonaIDs = []string{}
	}
	if err := json.Unmarshal(evidence, &a.Evidence); err != nil {
		return Assignment{}, fmt.Errorf("unmarshal assignment evidence: %w", err)
	}
	return a, nil
}
