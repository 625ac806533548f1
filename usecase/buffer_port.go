package usecase

import (
	"context"

	"github.com/mywallet/backend/domain"
)

// Buffered operation names shared with the processor.
const (
	OperationCreate = "create"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic.
type OperationBuffer interface {
	BufferEntry(ctx context.Context, operation string, entry *domain.Entry) error
}
