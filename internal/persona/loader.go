package persona

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"compass/internal/signals"
	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

// Document types mirror the rule configuration file one-to-one. They exist
// only for decoding; validated domain types are built from them.
type document struct {
	Personas []personaDoc `yaml:"personas"`
}

type personaDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Priority    int             `yaml:"priority"`
	Criteria    criteriaDoc     `yaml:"criteria"`
	FocusAreas  []string        `yaml:"focus_areas"`
	Content     contentTypesDoc `yaml:"content_types"`
}

type criteriaDoc struct {
	Operator   string         `yaml:"operator"`
	Conditions []conditionDoc `yaml:"conditions"`
}

type conditionDoc struct {
	Signal     string  `yaml:"signal"`
	Operator   string  `yaml:"operator"`
	Value      float64 `yaml:"value"`
	TimeWindow string  `yaml:"time_window,omitempty"`
}

type contentTypesDoc struct {
	Education     []string `yaml:"education"`
	PartnerOffers []string `yaml:"partner_offers"`
}

// Load reads and validates the rule configuration file. A missing file is a
// NotFound error (fatal at startup); any structural violation is a
// Validation error naming the broken invariant.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domainerrors.Newf(domainerrors.CodeNotFound, "persona rules file %q not found", path)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "read persona rules file")
	}
	return Parse(data)
}

// Parse builds a validated registry from a raw rule document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "persona rules document is not valid YAML")
	}

	personas := make([]Persona, 0, len(doc.Personas))
	for _, pd := range doc.Personas {
		p, err := fromDoc(pd)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}

	return NewRegistry(personas, time.Now())
}

func fromDoc(pd personaDoc) (Persona, error) {
	logical, err := ParseLogicalOperator(pd.Criteria.Operator)
	if err != nil {
		return Persona{}, domainerrors.Wrap(err, domainerrors.CodeValidation, "persona "+pd.ID)
	}

	conditions := make([]Condition, 0, len(pd.Criteria.Conditions))
	for _, cd := range pd.Criteria.Conditions {
		if cd.Signal == "" {
			return Persona{}, domainerrors.Newf(domainerrors.CodeValidation, "persona %q: condition signal name is required", pd.ID)
		}
		kind, ok := signals.ParseKind(cd.Signal)
		if !ok {
			return Persona{}, domainerrors.Newf(domainerrors.CodeValidation, "persona %q: unknown signal %q", pd.ID, cd.Signal)
		}
		op, err := ParseOperator(cd.Operator)
		if err != nil {
			return Persona{}, domainerrors.Wrap(err, domainerrors.CodeValidation, "persona "+pd.ID)
		}
		cond := Condition{Signal: kind, Operator: op, Threshold: cd.Value}
		if cd.TimeWindow != "" {
			window, err := domain.ParseTimeWindow(cd.TimeWindow)
			if err != nil {
				return Persona{}, domainerrors.Wrap(err, domainerrors.CodeValidation, "persona "+pd.ID)
			}
			cond.Window = &window
		}
		conditions = append(conditions, cond)
	}

	return Persona{
		ID:          pd.ID,
		Name:        pd.Name,
		Description: pd.Description,
		Priority:    pd.Priority,
		Criteria:    Criteria{Operator: logical, Conditions: conditions},
		FocusAreas:  pd.FocusAreas,
		Content: ContentRecommendations{
			Education:     pd.Content.Education,
			PartnerOffers: pd.Content.PartnerOffers,
		},
	}, nil
}
