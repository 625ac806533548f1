package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/repository"
	"github.com/mywallet/backend/usecase"
)

type UseCase struct {
	users   repository.UserRepository
	entries repository.EntryRepository
	buffer  usecase.OperationBuffer
	clock   clock.Clock
	logger  *zap.Logger
}

func New(users repository.UserRepository, entries repository.EntryRepository, buffer usecase.OperationBuffer, clk clock.Clock, logger *zap.Logger) *UseCase {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		entries: entries,
		buffer:  buffer,
		clock:   clk,
		logger:  logger,
	}
}

// Entries lists a user's ledger, newest first. The user record must exist.
func (uc *UseCase) Entries(ctx context.Context, filter repository.EntryFilter) ([]domain.Entry, error) {
	if _, err := uc.users.GetByID(ctx, filter.UserID); err != nil {
		return nil, err
	}
	return uc.entries.List(ctx, filter)
}

// Append records a signed entry. Exits are stored with a negated amount.
func (uc *UseCase) Append(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if entry == nil || !domain.ValidEntryKind(entry.Kind) {
		return nil, domain.ErrInvalidPayload
	}

	if entry.Kind == domain.EntryKindExit && entry.Amount > 0 {
		entry.Amount = -entry.Amount
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = uc.clock.Now()
	}

	created, err := uc.entries.Create(ctx, entry)
	if err != nil {
		if uc.shouldBuffer(ctx, entry) {
			return entry, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, entry *domain.Entry) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferEntry(ctx, usecase.OperationCreate, entry); err != nil {
		uc.logger.Error("failed to buffer ledger entry", zap.Error(err))
		return false
	}
	uc.logger.Warn("ledger entry buffered", zap.String("user_id", entry.UserID))
	return true
}
