//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"compass/internal/audit"
	"compass/pkg/domain"
	"compass/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.RunMigrations(s.T(), "../../migrations")
	s.store = audit.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresAuditSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *PostgresAuditSuite) TestAppendAndListByUser() {
	ctx := context.Background()
	userID := domain.UserID(uuid.New())
	other := domain.UserID(uuid.New())
	base := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp:  base.Add(time.Minute),
		Action:     audit.ActionAssignmentCreated,
		UserID:     userID,
		TimeWindow: domain.TimeWindowLong,
		PersonaID:  "financially_healthy",
		Reason:     "only qualifying persona (priority 6)",
		RequestID:  "req-2",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp:  base,
		Action:     audit.ActionAssignmentCreated,
		UserID:     userID,
		TimeWindow: domain.TimeWindowShort,
		PersonaID:  "low_savings",
		RequestID:  "req-1",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base,
		Action:    audit.ActionAssignmentCreated,
		UserID:    other,
		PersonaID: "irregular_income",
	}))

	events, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Run("events come back in time order", func() {
		s.Equal("low_savings", events[0].PersonaID)
		s.Equal("financially_healthy", events[1].PersonaID)
	})

	s.Run("fields survive the round trip", func() {
		s.Equal(audit.ActionAssignmentCreated, events[0].Action)
		s.Equal(userID, events[0].UserID)
		s.Equal(domain.TimeWindowShort, events[0].TimeWindow)
		s.Equal("req-1", events[0].RequestID)
		s.True(base.Equal(events[0].Timestamp))
	})
}

func (s *PostgresAuditSuite) TestUserlessEvent() {
	ctx := context.Background()

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionPersonasReloaded,
		Reason:    "operator-initiated reload",
	}))

	events, err := s.store.ListByUser(ctx, domain.UserID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(events)
}
