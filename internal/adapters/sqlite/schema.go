package sqlite

const createAttemptsTable = `
CREATE TABLE IF NOT EXISTS attempts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	idx         INTEGER NOT NULL,
	datacenter  TEXT NOT NULL,
	url         TEXT NOT NULL,
	lines       INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	status      INTEGER NOT NULL,
	bytes       INTEGER NOT NULL,
	object_key  TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
`

const insertAttempt = `
INSERT INTO attempts (run_id, idx, datacenter, url, lines, outcome, status, bytes, object_key, error, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectAttempts = `
SELECT run_id, idx, datacenter, url, lines, outcome, status, bytes, object_key, error, started_at, duration_ms
FROM attempts
ORDER BY id DESC
LIMIT ?`
