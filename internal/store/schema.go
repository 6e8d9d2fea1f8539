package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
    job_id          TEXT PRIMARY KEY,
    source_path     TEXT NOT NULL,
    output_name     TEXT NOT NULL,
    output_size     INTEGER,
    segment_count   INTEGER NOT NULL,
    outcome         TEXT NOT NULL,
    submitted_at    TEXT NOT NULL,
    finished_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_finished ON jobs(finished_at);
`
