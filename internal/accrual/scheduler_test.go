package accrual

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
	"github.com/playtoearn/coinserver/internal/dependencies/mocks"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/roster"
)

// fakeStore records increments and can fail or block per player
type fakeStore struct {
	mu         sync.Mutex
	increments map[model.PlayerID][]string
	failWith   map[model.PlayerID]error
	blockOn    map[model.PlayerID]chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		increments: make(map[model.PlayerID][]string),
		failWith:   make(map[model.PlayerID]error),
		blockOn:    make(map[model.PlayerID]chan struct{}),
	}
}

func (f *fakeStore) Register(ctx context.Context, id model.PlayerID) error {
	return nil
}

func (f *fakeStore) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	return nil
}

func (f *fakeStore) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	f.mu.Lock()
	block := f.blockOn[id]
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failWith[id]; err != nil {
		return err
	}
	f.increments[id] = append(f.increments[id], amount.String())
	return nil
}

func (f *fakeStore) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	return coin.Zero(), nil
}

func (f *fakeStore) incrementsFor(id model.PlayerID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.increments[id]...)
}

type SchedulerSuite struct {
	suite.Suite
	store     *fakeStore
	roster    *roster.Tracker
	idles     *idle.Tracker
	clk       *mocks.MockClock
	scheduler *Scheduler
	ctx       context.Context
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.store = newFakeStore()
	s.roster = roster.New(s.store, roster.DefaultConfig(), logger)
	s.idles = idle.NewTracker(idle.DefaultCategories())
	s.clk = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	cfg := DefaultConfig()
	cfg.Rate = coin.MustParse("1000")
	s.scheduler = New(s.roster, s.idles, s.store, s.clk, cfg, logger)
}

func (s *SchedulerSuite) join(id model.PlayerID) {
	s.roster.Join(s.ctx, model.Player{ID: id, DisplayName: string(id)})
}

// tick runs one pass and waits for all dispatches to land
func (s *SchedulerSuite) tick() {
	s.scheduler.Tick()
	s.scheduler.inFlight.Wait()
}

func (s *SchedulerSuite) TestEmptyRosterSkipsStore() {
	s.clk.Advance(30 * time.Second)
	s.tick()

	s.Empty(s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestEmptyRosterResetsElapsedBase() {
	// A long empty stretch must not grant a burst once someone joins
	s.clk.Advance(1 * time.Hour)
	s.tick()

	s.join("a")
	s.clk.Advance(7 * time.Second)
	s.tick()

	s.Equal([]string{"7000"}, s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestActivePlayersCredited() {
	s.join("a")
	s.join("b")
	s.clk.Advance(10 * time.Second)
	s.tick()

	s.Equal([]string{"10000"}, s.store.incrementsFor("a"))
	s.Equal([]string{"10000"}, s.store.incrementsFor("b"))
}

func (s *SchedulerSuite) TestIdlePlayerSkipped() {
	s.join("a")
	s.join("b")
	s.idles.SetInactive("a", idle.CategoryMovement, true)

	s.clk.Advance(10 * time.Second)
	s.tick()

	s.Empty(s.store.incrementsFor("a"))
	s.Equal([]string{"10000"}, s.store.incrementsFor("b"))
}

func (s *SchedulerSuite) TestZeroElapsedTicks() {
	s.join("a")
	s.tick()

	// Timer fired faster than one second; a zero increment is fine
	s.Equal([]string{"0"}, s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestNegativeElapsedClamped() {
	s.join("a")
	s.clk.Advance(-2 * time.Minute)
	s.tick()

	s.Equal([]string{"0"}, s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestOneFailureDoesNotAffectOthers() {
	s.join("a")
	s.join("b")
	s.store.failWith["b"] = errors.New("connection refused")

	s.clk.Advance(10 * time.Second)
	s.tick()

	s.Equal([]string{"10000"}, s.store.incrementsFor("a"))
	s.Empty(s.store.incrementsFor("b"))
}

func (s *SchedulerSuite) TestFailedDispatchStillAdvancesBase() {
	s.join("a")
	s.store.failWith["a"] = errors.New("connection refused")

	s.clk.Advance(10 * time.Second)
	s.tick()

	// The failed interval is not re-sent; only the new interval accrues
	delete(s.store.failWith, "a")
	s.clk.Advance(5 * time.Second)
	s.tick()

	s.Equal([]string{"5000"}, s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestMissingRecordIsBenign() {
	s.join("a")
	s.store.failWith["a"] = model.ErrNoWallet

	s.clk.Advance(10 * time.Second)
	s.tick()

	s.Empty(s.store.incrementsFor("a"))
}

func (s *SchedulerSuite) TestSlowDispatchDoesNotStarveNextTick() {
	s.join("a")
	s.join("b")
	block := make(chan struct{})
	s.store.blockOn["b"] = block

	s.clk.Advance(10 * time.Second)
	s.scheduler.Tick()

	// Tick 2 computes its interval from the already-updated base even
	// though b's first dispatch is still in flight
	s.clk.Advance(5 * time.Second)
	s.scheduler.Tick()

	close(block)
	s.scheduler.inFlight.Wait()

	s.ElementsMatch([]string{"10000", "5000"}, s.store.incrementsFor("a"))
	s.ElementsMatch([]string{"10000", "5000"}, s.store.incrementsFor("b"))
}

func (s *SchedulerSuite) TestRunStopsOnContextCancel() {
	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	cfg.Rate = coin.MustParse("1000")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := New(s.roster, s.idles, s.store, s.clk, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("scheduler did not stop after cancel")
	}
}
