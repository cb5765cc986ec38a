package observability

// Schema holds the mission-event table. Events are operational
// telemetry; the API never reads them back and reports themselves are
// never stored.
const Schema = `
CREATE TABLE IF NOT EXISTS mission_events (
	event_id    TEXT PRIMARY KEY,
	mission_id  TEXT NOT NULL,
	event_type  TEXT NOT NULL,
	target_url  TEXT NOT NULL,
	device      TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mission_events_mission
	ON mission_events (mission_id, created_at);
`
