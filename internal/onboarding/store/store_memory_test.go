package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

type InMemorySessionStoreSuite struct {
	suite.Suite
	store *InMemorySessionStore
	ctx   context.Context
}

func TestInMemorySessionStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemorySessionStoreSuite))
}

func (s *InMemorySessionStoreSuite) SetupTest() {
	s.store = NewInMemorySessionStore()
	s.ctx = context.Background()
}

func (s *InMemorySessionStoreSuite) TestGet() {
	s.Run("missing session returns not found", func() {
		_, err := s.store.Get(s.ctx, "user-1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("stored session round-trips", func() {
		session := models.NewSession("user-2", "newhire", time.Now())
		session.Collected.FirstName = "Dana"
		s.Require().NoError(s.store.Put(s.ctx, session))

		got, err := s.store.Get(s.ctx, "user-2")
		s.Require().NoError(err)
		s.Equal(models.StateStart, got.State)
		s.Equal("Dana", got.Collected.FirstName)
		s.Equal("newhire", got.Username)
	})
}

func (s *InMemorySessionStoreSuite) TestPut() {
	s.Run("put overwrites the existing session", func() {
		session := models.NewSession("user-3", "newhire", time.Now())
		s.Require().NoError(s.store.Put(s.ctx, session))

		session.State = models.StateAskEmail
		s.Require().NoError(s.store.Put(s.ctx, session))

		got, err := s.store.Get(s.ctx, "user-3")
		s.Require().NoError(err)
		s.Equal(models.StateAskEmail, got.State)

		count, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("put refreshes the updated timestamp", func() {
		session := models.NewSession("user-4", "newhire", time.Now().Add(-time.Hour))
		session.UpdatedAt = session.StartedAt
		s.Require().NoError(s.store.Put(s.ctx, session))

		got, err := s.store.Get(s.ctx, "user-4")
		s.Require().NoError(err)
		s.True(got.UpdatedAt.After(got.StartedAt))
	})
}

func (s *InMemorySessionStoreSuite) TestDelete() {
	session := models.NewSession("user-5", "newhire", time.Now())
	s.Require().NoError(s.store.Put(s.ctx, session))

	s.Require().NoError(s.store.Delete(s.ctx, "user-5"))
	_, err := s.store.Get(s.ctx, "user-5")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Deleting a missing session is a no-op, not an error.
	s.Require().NoError(s.store.Delete(s.ctx, "user-5"))
}
