package store

const schemaVersionV1 = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	phase_id       TEXT    NOT NULL,
	problem        TEXT    NOT NULL,
	seed           INTEGER NOT NULL,
	steps          INTEGER NOT NULL,
	evaluated      INTEGER NOT NULL,
	applied        INTEGER NOT NULL,
	starting_score REAL    NOT NULL,
	best_score     REAL    NOT NULL,
	reason         TEXT    NOT NULL,
	elapsed_ms     INTEGER NOT NULL,
	created_at     TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_problem ON runs(problem);
`
