package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
    key                  TEXT PRIMARY KEY,
    contract_version     INTEGER NOT NULL,
    source_name          TEXT,
    payload              TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);
`
