package handler

import (
	"time"

	"compass/internal/persona"
)

// RegistryResponse is the wire shape of the loaded rule set.
type RegistryResponse struct {
	LoadedAt time.Time         `json:"loaded_at"`
	Personas []PersonaResponse `json:"personas"`
}

type PersonaResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Priority    int              `json:"priority"`
	Criteria    CriteriaResponse `json:"criteria"`
	FocusAreas  []string         `json:"focus_areas"`
	Content     ContentResponse  `json:"content_types"`
}

type CriteriaResponse struct {
	Operator   string              `json:"operator"`
	Conditions []ConditionResponse `json:"conditions"`
}

type ConditionResponse struct {
	Signal     string  `json:"signal"`
	Operator   string  `json:"operator"`
	Value      float64 `json:"value"`
	TimeWindow string  `json:"time_window,omitempty"`
}

type ContentResponse struct {
	Education     []string `json:"education"`
	PartnerOffers []string `json:"partner_offers"`
}

// FromRegistry converts the registry to its HTTP shape, priority order.
func FromRegistry(reg *persona.Registry) RegistryResponse {
	personas := reg.ListByPriority()
	out := RegistryResponse{
		LoadedAt: reg.LoadedAt(),
		Personas: make([]PersonaResponse, 0, len(personas)),
	}
	for _, p := range personas {
		conditions := make([]ConditionResponse, 0, len(p.Criteria.Conditions))
		for _, c := range p.Criteria.Conditions {
			cr := ConditionResponse{
				Signal:   c.Signal.String(),
				Operator: string(c.Operator),
				Value:    c.Threshold,
			}
			if c.Window != nil {
				cr.TimeWindow = c.Window.String()
			}
			conditions = append(conditions, cr)
		}
		out.Personas = append(out.Personas, PersonaResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Priority:    p.Priority,
			Criteria:    CriteriaResponse{Operator: string(p.Criteria.Operator), Conditions: conditions},
			FocusAreas:  p.FocusAreas,
			Content: ContentResponse{
				Education:     p.Content.Education,
				PartnerOffers: p.Content.PartnerOffers,
			},
		})
	}
	return out
}
