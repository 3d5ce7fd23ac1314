package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"compass/internal/match"
	"compass/internal/persona"
	platformstrings "compass/pkg/platform/strings"
)

// reasonNoQualifiers is the recorded explanation for the sentinel outcome.
const reasonNoQualifiers = "No qualifying personas found"

// Selection is the prioritizer's contribution to an Assignment.
type Selection struct {
	PersonaID            string
	Priority             *int
	QualifyingPersonaIDs []string
	Reason               string
}

// Select picks the single persona to assign from the matcher's output. The
// result depends only on the set of qualifying persona ids and their registry
// priorities, never on input order: candidates are sorted by (priority, id)
// before the winner is taken.
//
// Registry validation forbids duplicate priorities, but a misconfigured
// reload could still produce them; the lexicographic id tie-break keeps the
// outcome deterministic instead of crashing.
func Select(ctx context.Context, matches []match.PersonaMatch, reg *persona.Registry, logger *slog.Logger) Selection {
	type candidate struct {
		id       string
		priority int
	}

	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		if !m.Matched {
			continue
		}
		p, ok := reg.GetByID(m.PersonaID)
		if !ok {
			logger.WarnContext(ctx, "qualifying persona missing from registry, skipping",
				"persona_id", m.PersonaID,
			)
			continue
		}
		candidates = append(candidates, candidate{id: p.ID, priority: p.Priority})
	}

	if len(candidates) == 0 {
		return Selection{
			PersonaID:            PersonaUnclassified,
			QualifyingPersonaIDs: []string{},
			Reason:               reasonNoQualifiers,
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority < candidates[j].priority
		}
		return candidates[i].id < candidates[j].id
	})

	winner := candidates[0]
	if len(candidates) > 1 && candidates[1].priority == winner.priority {
		logger.WarnContext(ctx, "duplicate priorities among qualifying personas, tie broken by id",
			"priority", winner.priority,
			"selected", winner.id,
			"runner_up", candidates[1].id,
		)
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
	}
	ids = platformstrings.DedupeAndTrim(ids)

	reason := fmt.Sprintf("%d qualifying personas; selected priority %d", len(ids), winner.priority)
	if len(ids) == 1 {
		reason = fmt.Sprintf("only qualifying persona (priority %d)", winner.priority)
	}

	priority := winner.priority
	return Selection{
		PersonaID:            winner.id,
		Priority:             &priority,
		QualifyingPersonaIDs: ids,
		Reason:               reason,
	}
}
