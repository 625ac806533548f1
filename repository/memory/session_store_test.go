package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/repository/memory"
)

func TestCreateIssuesUniqueTokens(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Create(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
		require.False(t, seen[token], "token issued twice")
		seen[token] = true
	}
}

func TestCreateReplacesPriorSession(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()

	t1, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	t2, err := store.Create(ctx, "u1")
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	_, err = store.Resolve(ctx, t1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	userID, err := store.Resolve(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	assert.ErrorIs(t, store.Renew(ctx, "u1", t1), domain.ErrUnauthorized)
	assert.NoError(t, store.Renew(ctx, "u1", t2))
}

func TestRenewFailuresAreIndistinguishable(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	missingUser := store.Renew(ctx, "nobody", token)
	wrongToken := store.Renew(ctx, "u1", "bogus")

	assert.ErrorIs(t, missingUser, domain.ErrUnauthorized)
	assert.ErrorIs(t, wrongToken, domain.ErrUnauthorized)
	assert.Equal(t, missingUser.Error(), wrongToken.Error())
}

func TestRenewKeepsSessionAlive(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()
	ttl := 15 * time.Second

	token, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	// Renew every 10s for a minute; the session must outlive several TTLs.
	for i := 0; i < 6; i++ {
		fake.Advance(10 * time.Second)
		require.NoError(t, store.Renew(ctx, "u1", token))

		evicted, err := store.Sweep(ctx, ttl)
		require.NoError(t, err)
		assert.Zero(t, evicted)
	}

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestSweepTTLBoundary(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()
	ttl := 15 * time.Second

	token, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	// Exactly at the boundary the session survives.
	fake.Advance(ttl)
	evicted, err := store.Sweep(ctx, ttl)
	require.NoError(t, err)
	assert.Zero(t, evicted)

	_, err = store.Resolve(ctx, token)
	require.NoError(t, err)

	// One tick past the boundary it is gone.
	fake.Advance(time.Nanosecond)
	evicted, err = store.Sweep(ctx, ttl)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSweepIsIdempotent(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()
	ttl := 15 * time.Second

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
	}

	fake.Advance(ttl + time.Second)

	evicted, err := store.Sweep(ctx, ttl)
	require.NoError(t, err)
	assert.Equal(t, 3, evicted)

	evicted, err = store.Sweep(ctx, ttl)
	require.NoError(t, err)
	assert.Zero(t, evicted)
}

func TestMissedHeartbeatScenario(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()
	ttl := 15 * time.Second

	t1, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	fake.Advance(10 * time.Second)
	require.NoError(t, store.Renew(ctx, "u1", t1))

	// No heartbeat for 16s: the next sweep evicts the session.
	fake.Advance(16 * time.Second)
	evicted, err := store.Sweep(ctx, ttl)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = store.Resolve(ctx, t1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestConcurrentOperationsKeepInvariants(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewSessionStore(fake)
	ctx := context.Background()

	const users = 8
	const rounds = 50

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		wg.Add(2)

		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				token, err := store.Create(ctx, userID)
				if err != nil {
					t.Error(err)
					return
				}
				// A renew right after create may race a later create; only
				// Unauthorized is acceptable then.
				if err := store.Renew(ctx, userID, token); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
					t.Error(err)
					return
				}
			}
		}()

		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := store.Sweep(ctx, time.Second); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// Every user still has exactly one resolvable session.
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		token, err := store.Create(ctx, userID)
		require.NoError(t, err)

		resolved, err := store.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, resolved)
	}
}
