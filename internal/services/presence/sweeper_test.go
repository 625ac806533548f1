package presence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mywallet/backend/internal/services/presence"
)

type recordingStore struct {
	mu     sync.Mutex
	sweeps int
	ttls   []time.Duration
	err    error
}

func (s *recordingStore) Create(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (s *recordingStore) Renew(ctx context.Context, userID, token string) error {
	return nil
}

func (s *recordingStore) Resolve(ctx context.Context, token string) (string, error) {
	return "", nil
}

func (s *recordingStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.ttls = append(s.ttls, ttl)
	return 0, s.err
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func TestSweeperFiresPeriodically(t *testing.T) {
	store := &recordingStore{}
	sweeper := presence.NewSweeper(store, presence.Config{
		TTL:    15 * time.Millisecond,
		Period: 20 * time.Millisecond,
	}, nil)

	sweeper.Start()
	defer sweeper.Stop()

	require.Eventually(t, func() bool {
		return store.count() >= 3
	}, time.Second, 5*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, ttl := range store.ttls {
		assert.Equal(t, 15*time.Millisecond, ttl)
	}
}

func TestSweeperSurvivesStoreErrors(t *testing.T) {
	store := &recordingStore{err: errors.New("storage unreachable")}
	sweeper := presence.NewSweeper(store, presence.Config{
		TTL:    15 * time.Millisecond,
		Period: 10 * time.Millisecond,
	}, nil)

	sweeper.Start()
	defer sweeper.Stop()

	// Failing sweeps must not stop the schedule.
	require.Eventually(t, func() bool {
		return store.count() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSweeperStops(t *testing.T) {
	store := &recordingStore{}
	sweeper := presence.NewSweeper(store, presence.Config{
		TTL:    15 * time.Millisecond,
		Period: 10 * time.Millisecond,
	}, nil)

	sweeper.Start()
	require.Eventually(t, func() bool {
		return store.count() >= 1
	}, time.Second, 5*time.Millisecond)
	sweeper.Stop()

	settled := store.count()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, store.count(), settled+1)
}
