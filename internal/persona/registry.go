package persona

import (
	"sort"
	"time"

	domainerrors "compass/pkg/domain-errors"
)

// Registry is the validated, immutable collection of personas. It is safe
// for unsynchronized concurrent reads; a reload builds a brand-new instance
// rather than mutating a live one.
type Registry struct {
	personas   []Persona
	byID       map[string]Persona
	byPriority []Persona
	loadedAt   time.Time
}

// NewRegistry validates the full rule set and returns an immutable registry.
// It never returns a partially valid registry: the first violated invariant
// aborts construction.
func NewRegistry(personas []Persona, loadedAt time.Time) (*Registry, error) {
	if len(personas) == 0 {
		return nil, domainerrors.New(domainerrors.CodeValidation, "registry requires at least one persona")
	}

	byID := make(map[string]Persona, len(personas))
	byPriority := make(map[int]string, len(personas))
	for _, p := range personas {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, ok := byID[p.ID]; ok {
			return nil, domainerrors.Newf(domainerrors.CodeValidation, "duplicate persona id %q", p.ID)
		}
		if other, ok := byPriority[p.Priority]; ok {
			return nil, domainerrors.Newf(domainerrors.CodeValidation, "personas %q and %q share priority %d", other, p.ID, p.Priority)
		}
		byID[p.ID] = p
		byPriority[p.Priority] = p.ID
	}

	sorted := make([]Persona, len(personas))
	copy(sorted, personas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	ordered := make([]Persona, len(personas))
	copy(ordered, personas)

	return &Registry{
		personas:   ordered,
		byID:       byID,
		byPriority: sorted,
		loadedAt:   loadedAt,
	}, nil
}

// GetByID looks up a persona by its identifier.
func (r *Registry) GetByID(id string) (Persona, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// ListByPriority returns personas sorted ascending by priority (1 first).
// The returned slice is a copy; callers cannot mutate registry state.
func (r *Registry) ListByPriority() []Persona {
	out := make([]Persona, len(r.byPriority))
	copy(out, r.byPriority)
	return out
}

// List returns personas in load order. The returned slice is a copy.
func (r *Registry) List() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

// ListIDs returns all persona ids in load order.
func (r *Registry) ListIDs() []string {
	ids := make([]string, 0, len(r.personas))
	for _, p := range r.personas {
		ids = append(ids, p.ID)
	}
	return ids
}

// Len reports the number of personas in the registry.
func (r *Registry) Len() int { return len(r.personas) }

// LoadedAt reports when this registry instance was built, making the cached
// state inspectable.
func (r *Registry) LoadedAt() time.Time { return r.loadedAt }
