package models

import (
	"time"

	"github.com/membership-service/internal/types"
)

// MemberEvent is an append-only audit record of session and wallet activity.
// Writes are best-effort: a failed audit write never blocks the member action.
type MemberEvent struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	Type          types.MemberEventType `json:"type"`
	WalletAddress string                `json:"walletAddress,omitempty"`
	Detail        string                `json:"detail,omitempty"`
	OccurredAt    time.Time             `json:"occurredAt"`
}
