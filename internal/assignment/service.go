package assignment

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"compass/internal/assignment/metrics"
	"compass/internal/audit"
	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
	"compass/pkg/requestcontext"
)

// summaryTimeout bounds the behavioral-summary round trip.
const summaryTimeout = 10 * time.Second

// Service drives the end-to-end assignment workflow and retrieval.
type Service struct {
	store     Store
	summaries SummarySource
	matcher   Matcher
	registry  RegistrySource
	auditor   AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// NewService constructs the assignment service with its dependencies.
func NewService(store Store, summaries SummarySource, matcher Matcher, registry RegistrySource, auditor AuditPublisher, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "assignment store is required")
	}
	if summaries == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "summary source is required")
	}
	if matcher == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "matcher is required")
	}
	if registry == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "registry source is required")
	}
	if auditor == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "audit publisher is required")
	}
	if logger == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "logger is required")
	}
	return &Service{
		store:     store,
		summaries: summaries,
		matcher:   matcher,
		registry:  registry,
		auditor:   auditor,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("compass/assignment"),
	}, nil
}

// Assign classifies the user for one time window and persists the decision.
// One insert per call; prior assignments are never touched.
func (s *Service) Assign(ctx context.Context, userID domain.UserID, referenceDate time.Time, window domain.TimeWindow) (*Assignment, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if userID.IsNil() {
		return nil, domainerrors.New(domainerrors.CodeValidation, "user_id is required")
	}

	ctx, span := s.tracer.Start(ctx, "assignment.assign",
		trace.WithAttributes(
			attribute.String("user_id", userID.String()),
			attribute.String("time_window", window.String()),
		))
	defer span.End()

	start := time.Now()

	bundle, err := s.fetchBundle(ctx, userID, referenceDate)
	if err != nil {
		span.RecordError(err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "behavioral summary fetch failed")
	}

	matches, err := s.matcher.Evaluate(ctx, userID, referenceDate, bundle, window)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	selection := Select(ctx, matches, s.registry.Current(), s.logger)

	evidence := make(map[string]MatchEvidence, len(matches))
	for _, m := range matches {
		evidence[m.PersonaID] = MatchEvidence{
			Matched:    m.Matched,
			Signals:    m.Evidence,
			Conditions: m.MatchedConditions,
		}
	}

	a := Assignment{
		ID:                   domain.NewAssignmentID(),
		UserID:               userID,
		TimeWindow:           window,
		PersonaID:            selection.PersonaID,
		Priority:             selection.Priority,
		QualifyingPersonaIDs: selection.QualifyingPersonaIDs,
		Reason:               selection.Reason,
		AssignedAt:           requestcontext.Now(ctx),
		Evidence:             evidence,
	}

	if err := s.store.Save(ctx, a); err != nil {
		span.RecordError(err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "persist assignment")
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionAssignmentCreated,
		UserID:     userID,
		TimeWindow: window,
		PersonaID:  a.PersonaID,
		Reason:     a.Reason,
	}); err != nil {
		// The assignment row is already durable; losing one audit event is
		// logged, not surfaced.
		s.logger.ErrorContext(ctx, "audit emit failed for assignment",
			"assignment_id", a.ID,
			"error", err,
		)
	}

	s.metrics.ObserveAssignment(a.PersonaID, window.String(), time.Since(start))
	s.logger.InfoContext(ctx, "assignment created",
		"assignment_id", a.ID,
		"user_id", userID,
		"time_window", window,
		"persona_id", a.PersonaID,
		"qualifying", len(a.QualifyingPersonaIDs),
	)

	return &a, nil
}

func (s *Service) fetchBundle(ctx context.Context, userID domain.UserID, referenceDate time.Time) (signals.Bundle, error) {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	start := time.Now()
	bundle, err := s.summaries.FetchBundle(ctx, userID, referenceDate)
	s.metrics.ObserveSignalFetch("summary", time.Since(start))
	return bundle, err
}

// GetLatest returns the most recent assignment for (user, window), or a
// NotFound error when the user has never been assigned in that window.
func (s *Service) GetLatest(ctx context.Context, userID domain.UserID, window domain.TimeWindow) (*Assignment, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	a, err := s.store.FindLatest(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetLatestBothWindows fetches the most recent assignment for each window in
// parallel. A window with no assignment yet is nil, not an error.
func (s *Service) GetLatestBothWindows(ctx context.Context, userID domain.UserID) (BothWindows, error) {
	var both BothWindows
	g, ctx := errgroup.WithContext(ctx)

	fetch := func(window domain.TimeWindow, target **Assignment) func() error {
		return func() error {
			a, err := s.store.FindLatest(ctx, userID, window)
			if err != nil {
				if domainerrors.HasCode(err, domainerrors.CodeNotFound) {
					return nil
				}
				return err
			}
			*target = &a
			return nil
		}
	}

	g.Go(fetch(domain.TimeWindowShort, &both.Short))
	g.Go(fetch(domain.TimeWindowLong, &both.Long))

	if err := g.Wait(); err != nil {
		return BothWindows{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load latest assignments")
	}
	return both, nil
}
