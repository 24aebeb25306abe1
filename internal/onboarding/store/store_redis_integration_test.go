//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/store"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
	"github.com/BrandonDavidJones1/hire-bot/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisSessionStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedisSessionStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(userID string) models.Session {
	sess := models.NewSession(userID, "jane", time.Now())
	sess.State = models.StateAskEmail
	sess.Collected.FirstName = "Jane"
	sess.Collected.LastName = "Doe"
	sess.Collected.HasComputer = true
	sess.Collected.Bilingual = true
	sess.Collected.Languages = "Spanish"
	sess.Collected.Location = "Texas"
	return sess
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	sess := makeSession("u-1")
	s.Require().NoError(s.store.Put(ctx, sess))

	got, err := s.store.Get(ctx, "u-1")
	s.Require().NoError(err)
	s.Equal(sess.UserID, got.UserID)
	s.Equal(sess.Username, got.Username)
	s.Equal(sess.State, got.State)
	s.Equal(sess.Collected, got.Collected)
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "u-absent")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, makeSession("u-1")))
	s.Require().NoError(s.store.Delete(ctx, "u-1"))

	_, err := s.store.Get(ctx, "u-1")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Deleting an absent session is a no-op, matching the in-memory store.
	s.Require().NoError(s.store.Delete(ctx, "u-1"))
}

func (s *RedisStoreSuite) TestCount() {
	ctx := context.Background()

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Zero(count)

	for _, id := range []string{"u-1", "u-2", "u-3"} {
		s.Require().NoError(s.store.Put(ctx, makeSession(id)))
	}

	count, err = s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *RedisStoreSuite) TestPutSetsTTL() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, makeSession("u-1")))

	ttl, err := s.redis.Client.TTL(ctx, "onboarding:session:u-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0), "session keys must expire")
	s.LessOrEqual(ttl, 7*24*time.Hour)
}

func (s *RedisStoreSuite) TestConcurrentPuts() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := makeSession("u-1")
			sess.Collected.Email = "jane@example.com"
			s.NoError(s.store.Put(ctx, sess))
		}()
	}
	wg.Wait()

	got, err := s.store.Get(ctx, "u-1")
	s.Require().NoError(err)
	s.Equal("jane@example.com", got.Collected.Email)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count, "same user always maps to one key")
}
