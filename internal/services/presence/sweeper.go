package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mywallet/backend/repository"
)

// Config holds the only tunables of the presence subsystem. The period is
// deliberately longer than the TTL so every session is checked at least once
// per lifetime; real eviction latency lands between ttl and ttl+period.
type Config struct {
	TTL    time.Duration
	Period time.Duration
}

// Sweeper periodically evicts sessions whose last renewal is older than the
// TTL. Sweep failures are logged and swallowed so the next firing always
// happens.
type Sweeper struct {
	store  repository.SessionStore
	cfg    Config
	stopCh chan struct{}
	logger *zap.Logger
}

func NewSweeper(store repository.SessionStore, cfg Config, logger *zap.Logger) *Sweeper {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Second
	}
	if cfg.Period <= 0 {
		cfg.Period = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:  store,
		cfg:    cfg,
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

func (s *Sweeper) Start() {
	go s.loop()
}

func (s *Sweeper) Stop() {
	close(s.stopCh)
}

func (s *Sweeper) loop() {
	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Period)
	defer cancel()

	evicted, err := s.store.Sweep(ctx, s.cfg.TTL)
	if err != nil {
		s.logger.Error("session sweep failed", zap.Error(err))
		return
	}
	if evicted > 0 {
		s.logger.Info("expired sessions evicted", zap.Int("count", evicted))
	}
}
