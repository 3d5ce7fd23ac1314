package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"compass/pkg/domain"
	domainerrors "compass/pkg/domain-errors"
)

type LoaderSuite struct {
	suite.Suite
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

const validRules = `
personas:
  - id: high_utilization
    name: High Credit Utilization
    description: Carries high revolving balances.
    priority: 1
    criteria:
      operator: AND
      conditions:
        - signal: credit_utilization_pct
          operator: ">="
          value: 50
    focus_areas: [debt_paydown]
    content_types:
      education: [understanding_credit_utilization]
      partner_offers: []
  - id: irregular_income
    name: Irregular Income
    description: Income arrives unevenly.
    priority: 2
    criteria:
      operator: OR
      conditions:
        - signal: pay_gap_days
          operator: ">"
          value: 45
          time_window: long
        - signal: income_tx_count
          operator: "<"
          value: 2
    focus_areas: [cash_flow_planning]
    content_types:
      education: [budgeting_on_variable_income]
      partner_offers: []
`

func (s *LoaderSuite) TestParse() {
	s.Run("valid document builds a registry", func() {
		reg, err := Parse([]byte(validRules))
		s.Require().NoError(err)
		s.Equal(2, reg.Len())

		p, ok := reg.GetByID("irregular_income")
		s.Require().True(ok)
		s.Equal(LogicalOr, p.Criteria.Operator)
		s.Require().Len(p.Criteria.Conditions, 2)
		s.Require().NotNil(p.Criteria.Conditions[0].Window)
		s.Equal(domain.TimeWindowLong, *p.Criteria.Conditions[0].Window)
		s.Nil(p.Criteria.Conditions[1].Window)
	})

	s.Run("unknown signal is rejected", func() {
		doc := `
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      operator: AND
      conditions:
        - signal: astrological_sign
          operator: ">="
          value: 1
    focus_areas: [x]
`
		_, err := Parse([]byte(doc))
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
		s.Contains(err.Error(), `unknown signal "astrological_sign"`)
	})

	s.Run("unknown comparison operator is rejected", func() {
		doc := `
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      operator: AND
      conditions:
        - signal: savings_months
          operator: "!="
          value: 1
    focus_areas: [x]
`
		_, err := Parse([]byte(doc))
		s.Error(err)
		s.Contains(err.Error(), "unknown comparison operator")
	})

	s.Run("unknown logical operator is rejected", func() {
		doc := `
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      operator: XOR
      conditions:
        - signal: savings_months
          operator: "<"
          value: 1
    focus_areas: [x]
`
		_, err := Parse([]byte(doc))
		s.Error(err)
		s.Contains(err.Error(), "AND or OR")
	})

	s.Run("invalid condition time_window is rejected", func() {
		doc := `
personas:
  - id: bad
    name: Bad
    priority: 1
    criteria:
      operator: AND
      conditions:
        - signal: savings_months
          operator: "<"
          value: 1
          time_window: 7d
    focus_areas: [x]
`
		_, err := Parse([]byte(doc))
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})

	s.Run("malformed yaml is a validation error", func() {
		_, err := Parse([]byte("personas: [unclosed"))
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})
}

func (s *LoaderSuite) TestLoad() {
	s.Run("missing file is a not-found error", func() {
		_, err := Load(filepath.Join(s.T().TempDir(), "nope.yaml"))
		s.Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
	})

	s.Run("file round-trips through Parse", func() {
		path := filepath.Join(s.T().TempDir(), "personas.yaml")
		s.Require().NoError(os.WriteFile(path, []byte(validRules), 0o600))

		reg, err := Load(path)
		s.Require().NoError(err)
		s.Equal([]string{"high_utilization", "irregular_income"}, reg.ListIDs())
	})
}

// TestShippedRules keeps the default rule file loadable: a deploy with a
// broken config/personas.yaml must fail in CI, not at startup.
func (s *LoaderSuite) TestShippedRules() {
	reg, err := Load(filepath.Join("..", "..", "config", "personas.yaml"))
	s.Require().NoError(err)
	s.GreaterOrEqual(reg.Len(), 6)
}
