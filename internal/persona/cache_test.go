package persona

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CacheSuite struct {
	suite.Suite
	path   string
	logger *slog.Logger
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "personas.yaml")
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.write(validRules)
}

func (s *CacheSuite) write(doc string) {
	s.Require().NoError(os.WriteFile(s.path, []byte(doc), 0o600))
}

func (s *CacheSuite) TestNewCache() {
	s.Run("load failure blocks construction", func() {
		_, err := NewCache(filepath.Join(s.T().TempDir(), "missing.yaml"), s.logger)
		s.Error(err)
	})

	s.Run("valid file loads once", func() {
		cache, err := NewCache(s.path, s.logger)
		s.Require().NoError(err)
		s.Equal(2, cache.Current().Len())
	})
}

func (s *CacheSuite) TestReload() {
	ctx := context.Background()

	s.Run("reload swaps in a new instance", func() {
		cache, err := NewCache(s.path, s.logger)
		s.Require().NoError(err)

		before := cache.Current()
		s.write(validRules + `
  - id: added_later
    name: Added Later
    priority: 9
    criteria:
      operator: AND
      conditions:
        - signal: savings_months
          operator: "<"
          value: 1
    focus_areas: [emergency_fund]
`)

		after, err := cache.Reload(ctx)
		s.Require().NoError(err)

		s.NotSame(before, after)
		s.Same(after, cache.Current())
		s.Equal(3, after.Len())
		// The old snapshot stays fully usable for readers still holding it.
		s.Equal(2, before.Len())
	})

	s.Run("failed reload keeps previous registry serving", func() {
		cache, err := NewCache(s.path, s.logger)
		s.Require().NoError(err)
		before := cache.Current()

		s.write("personas: [broken")
		_, err = cache.Reload(ctx)
		s.Error(err)
		s.Same(before, cache.Current())
	})
}
