package audit

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
// There are no UPDATE or DELETE paths for decisions and verdicts anywhere
// in this package; rows in those tables are written exactly once.
const Schema = `
-- Decision events
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    organization TEXT NOT NULL,
    domain TEXT NOT NULL,
    intent TEXT NOT NULL,
    stage TEXT NOT NULL,
    actor TEXT NOT NULL,
    target TEXT NOT NULL,

    -- Scope record
    scope_id TEXT NOT NULL,
    scope_domain TEXT NOT NULL,
    scope_service TEXT,
    scope_agent TEXT,
    scope_system TEXT,
    scope_environment TEXT,
    scope_owning_team TEXT,

    -- Populated signal values, JSON object keyed by signal name
    context TEXT NOT NULL,

    timestamp TIMESTAMP NOT NULL,

    -- Governing contract, set once resolved
    spec_id TEXT,
    spec_version TEXT
);

CREATE INDEX IF NOT EXISTS idx_decisions_domain ON decisions(domain, timestamp);
CREATE INDEX IF NOT EXISTS idx_decisions_org ON decisions(organization, timestamp);

-- Verdict events
CREATE TABLE IF NOT EXISTS verdicts (
    id TEXT PRIMARY KEY,
    decision_id TEXT NOT NULL,
    verdict TEXT NOT NULL,

    -- JSON array of every matched policy id
    matched_policy_ids TEXT NOT NULL,

    snapshot_id TEXT NOT NULL,
    spec_id TEXT NOT NULL,
    spec_version TEXT NOT NULL,
    scope_id TEXT NOT NULL,
    owning_team TEXT,
    domain TEXT NOT NULL,
    issued_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verdicts_decision ON verdicts(decision_id);
CREATE INDEX IF NOT EXISTS idx_verdicts_domain ON verdicts(domain, issued_at);

-- Timeline entries
CREATE TABLE IF NOT EXISTS timeline (
    id TEXT PRIMARY KEY,
    decision_id TEXT NOT NULL,
    step TEXT NOT NULL,
    source TEXT NOT NULL,
    authority TEXT NOT NULL,
    detail TEXT,
    at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_timeline_decision ON timeline(decision_id, at);
CREATE INDEX IF NOT EXISTS idx_timeline_at ON timeline(at);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring re-runs.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion reads the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;`
