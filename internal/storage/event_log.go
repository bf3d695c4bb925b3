package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/membership-service/internal/models"
	"github.com/membership-service/internal/types"
)

// EventLog appends session and wallet activity to the member_events table.
// Entries are advisory: callers treat append failures as non-fatal and the
// triggering member action proceeds regardless.
type EventLog struct {
	db *ClickHouseDB
}

// NewEventLog creates a new event log
func NewEventLog(db *ClickHouseDB) *EventLog {
	return &EventLog{db: db}
}

// Append writes a single member event
func (l *EventLog) Append(ctx context.Context, event *models.MemberEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO member_events (id, user_id, event_type, wallet_address, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	err := l.db.Conn().Exec(ctx, query,
		event.ID,
		event.UserID,
		string(event.Type),
		event.WalletAddress,
		event.Detail,
		event.OccurredAt,
	)
	if err != nil {
		return storeError("append member event", err)
	}

	return nil
}

// ListByUser retrieves recent events for a user, newest first
func (l *EventLog) ListByUser(ctx context.Context, userID string, limit int) ([]*models.MemberEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, event_type, wallet_address, detail, occurred_at
		FROM member_events
		WHERE user_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?
	`

	rows, err := l.db.Conn().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, storeError("list member events", err)
	}
	defer rows.Close()

	var events []*models.MemberEvent
	for rows.Next() {
		var event models.MemberEvent
		var eventType string
		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&eventType,
			&event.WalletAddress,
			&event.Detail,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, storeError("scan member event", err)
		}
		event.Type = types.MemberEventType(eventType)
		events = append(events, &event)
	}

	return events, nil
}
