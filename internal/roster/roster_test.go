package roster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
)

// countingStore counts registrations and fails the first n attempts
type countingStore struct {
	mu        sync.Mutex
	attempts  int
	failFirst int
}

func (c *countingStore) Register(ctx context.Context, id model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.attempts <= c.failFirst {
		return errors.New("store unreachable")
	}
	return nil
}

func (c *countingStore) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	return nil
}

func (c *countingStore) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	return nil
}

func (c *countingStore) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	return coin.Zero(), nil
}

func (c *countingStore) attemptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

type TrackerSuite struct {
	suite.Suite
	store   *countingStore
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.store = &countingStore{}
	cfg := Config{
		RegisterRetryDelay: 10 * time.Millisecond,
		RegisterTimeout:    time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.tracker = New(s.store, cfg, logger)
	s.ctx = context.Background()
}

func (s *TrackerSuite) join(id model.PlayerID) {
	s.tracker.Join(s.ctx, model.Player{ID: id, DisplayName: string(id)})
}

func (s *TrackerSuite) TestJoinIsIdempotent() {
	s.join("a")
	s.join("a")

	s.Len(s.tracker.Members(), 1)
	s.True(s.tracker.Contains("a"))
}

func (s *TrackerSuite) TestLeaveWhenAbsentIsNoop() {
	s.tracker.Leave("ghost")
	s.True(s.tracker.Empty())
}

func (s *TrackerSuite) TestJoinLeave() {
	s.join("a")
	s.join("b")
	s.False(s.tracker.Empty())

	s.tracker.Leave("a")
	s.False(s.tracker.Contains("a"))
	s.True(s.tracker.Contains("b"))

	s.tracker.Leave("b")
	s.True(s.tracker.Empty())
}

func (s *TrackerSuite) TestMembersIsASnapshot() {
	s.join("a")
	members := s.tracker.Members()
	s.tracker.Leave("a")

	// The earlier snapshot is unaffected by the mutation
	s.Len(members, 1)
	s.Equal(model.PlayerID("a"), members[0].ID)
}

func (s *TrackerSuite) TestConcurrentJoinLeaveAndSnapshot() {
	var wg sync.WaitGroup
	ids := []model.PlayerID{"a", "b", "c", "d"}

	for _, id := range ids {
		wg.Add(1)
		go func(id model.PlayerID) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.tracker.Join(s.ctx, model.Player{ID: id})
				s.tracker.Leave(id)
			}
		}(id)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			for range s.tracker.Members() {
			}
		}
	}()

	wg.Wait()
}

func (s *TrackerSuite) TestJoinRegistersWithStore() {
	s.join("a")

	s.Eventually(func() bool {
		return s.store.attemptCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func (s *TrackerSuite) TestRegistrationRetriesWhileConnected() {
	s.store.failFirst = 2
	s.join("a")

	s.Eventually(func() bool {
		return s.store.attemptCount() >= 3
	}, time.Second, 5*time.Millisecond)
}

func (s *TrackerSuite) TestRegistrationAbandonedAfterLeave() {
	s.store.failFirst = 1000
	s.join("a")

	s.Eventually(func() bool {
		return s.store.attemptCount() >= 1
	}, time.Second, 5*time.Millisecond)

	s.tracker.Leave("a")
	time.Sleep(50 * time.Millisecond)
	settled := s.store.attemptCount()

	// At most one attempt could have been mid-flight at leave time
	time.Sleep(50 * time.Millisecond)
	s.LessOrEqual(s.store.attemptCount(), settled+1)
}
