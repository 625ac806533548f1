package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/repository"
)

const (
	userKeyPrefix  = "session:user:"
	tokenKeyPrefix = "session:token:"
)

type sessionStore struct {
	client *redislib.Client
	clock  clock.Clock
}

// NewSessionStore creates a Redis-backed session store for deployments where
// sessions must survive process restarts. Records live under session:user:<id>
// with a session:token:<token> index for resolve. Unlike the memory store its
// operations are not a single critical section; concurrent writers for the
// same user follow Redis last-write-wins.
func NewSessionStore(client *redislib.Client, clk clock.Clock) repository.SessionStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &sessionStore{
		client: client,
		clock:  clk,
	}
}

func (s *sessionStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidPayload
	}

	session := &domain.Session{
		UserID:        userID,
		Token:         uuid.NewString(),
		LastRenewedAt: s.clock.Now(),
	}

	prev, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	if prev != nil {
		pipe.Del(ctx, tokenKeyPrefix+prev.Token)
	}
	pipe.Set(ctx, userKeyPrefix+userID, payload, 0)
	pipe.Set(ctx, tokenKeyPrefix+session.Token, userID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", storageErr(err)
	}

	return session.Token, nil
}

func (s *sessionStore) Renew(ctx context.Context, userID, token string) error {
	session, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil || session.Token != token {
		return domain.ErrUnauthorized
	}

	session.LastRenewedAt = s.clock.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, userKeyPrefix+userID, payload, 0).Err(); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *sessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	userID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrUnauthorized
		}
		return "", storageErr(err)
	}
	return userID, nil
}

func (s *sessionStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	// One cutoff for the whole pass, matching the memory store.
	now := s.clock.Now()

	evicted := 0
	iter := s.client.Scan(ctx, 0, userKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Result()
		if err != nil {
			if err == redislib.Nil {
				continue
			}
			return evicted, storageErr(err)
		}

		var session domain.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			continue
		}
		if !session.Expired(now, ttl) {
			continue
		}

		pipe := s.client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.Del(ctx, tokenKeyPrefix+session.Token)
		if _, err := pipe.Exec(ctx); err != nil {
			return evicted, storageErr(err)
		}
		evicted++
	}
	if err := iter.Err(); err != nil {
		return evicted, storageErr(err)
	}
	return evicted, nil
}

func (s *sessionStore) get(ctx context.Context, userID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, nil
		}
		return nil, storageErr(err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func storageErr(err error) error {
	return domain.WrapError(domain.ErrCodeInternal, "session storage failure", err)
}
