package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT NOT NULL,
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    kind                 TEXT NOT NULL,
    date                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    description          TEXT,
    category             TEXT,
    recurrence           TEXT NOT NULL DEFAULT 'one_time',
    recurrence_end       TEXT,
    account              TEXT,
    seq                  INTEGER NOT NULL,
    PRIMARY KEY (file_path, id)
);

CREATE TABLE IF NOT EXISTS liabilities (
    id                   TEXT NOT NULL,
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    category             TEXT NOT NULL,
    balance              REAL NOT NULL,
    interest_rate        REAL NOT NULL,
    minimum_payment      REAL NOT NULL,
    account              TEXT,
    seq                  INTEGER NOT NULL,
    PRIMARY KEY (file_path, id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_kind ON transactions(kind);
`
