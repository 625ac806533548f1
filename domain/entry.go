package domain

import "time"

// Entry kinds. An exit is persisted with a negated amount.
const (
	EntryKindEntry = "entry"
	EntryKindExit  = "exit"
)

// Entry represents a signed monetary record in a user's ledger.
// Amount is expressed in minor currency units.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func ValidEntryKind(kind string) bool {
	return kind == EntryKindEntry || kind == EntryKindExit
}
