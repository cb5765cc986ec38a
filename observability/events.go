// CLAUDE:SUMMARY SQLite mission-event logger; write failures never propagate to missions.
// Package observability records mission lifecycle events in SQLite.
package observability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Mission lifecycle event types.
const (
	EventMissionStarted   = "mission_started"
	EventMissionCompleted = "mission_completed"
	EventMissionFailed    = "mission_failed"
)

// Event is one mission lifecycle record.
type Event struct {
	MissionID string
	Type      string
	TargetURL string
	Device    string
	Detail    string // error message or report status
	Duration  time.Duration
}

// EventLogger writes mission events. Non-blocking contract: write errors
// are logged via slog and never propagate, so a failing telemetry store
// never blocks or fails a mission.
type EventLogger struct {
	db    *sql.DB
	newID func() string
}

// NewEventLogger creates a logger backed by the given database. Init
// must run once before logging.
func NewEventLogger(db *sql.DB) *EventLogger {
	return &EventLogger{
		db:    db,
		newID: func() string { return "evt_" + uuid.NewString() },
	}
}

// Init creates the schema. Idempotent.
func (l *EventLogger) Init() error {
	_, err := l.db.Exec(Schema)
	return err
}

// LogEvent records one mission event.
func (l *EventLogger) LogEvent(ctx context.Context, e Event) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO mission_events (
			event_id, mission_id, event_type, target_url, device,
			detail, duration_ms, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		l.newID(), e.MissionID, e.Type, e.TargetURL, e.Device,
		e.Detail, e.Duration.Milliseconds(), time.Now().Unix())
	if err != nil {
		slog.Error("observability: event log failed",
			"error", err, "event_type", e.Type, "mission_id", e.MissionID)
	}
}
