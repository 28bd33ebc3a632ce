package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/scope"
)

// DriverCGO is the mattn/go-sqlite3 driver. It is the default and needs a
// C toolchain at build time.
const DriverCGO = "sqlite3"

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the SQL driver: DriverCGO or DriverPurego.
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		Driver:       DriverCGO,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteSink implements Sink and TimelinePruner backed by SQLite.
type SQLiteSink struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteSink opens (or creates) the audit database and initializes the
// schema.
func NewSQLiteSink(config *SQLiteConfig) (*SQLiteSink, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCGO
	}

	logger := slog.Default().With("component", "audit.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteSink{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite audit sink initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the schema and the configured pragmas.
func (s *SQLiteSink) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds()))
		if err != nil {
			return NewStorageError("sqlite", "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// AppendDecision persists a decision event.
func (s *SQLiteSink) AppendDecision(ctx context.Context, event *decision.Event) error {
	contextJSON, err := json.Marshal(event.Context)
	if err != nil {
		return NewStorageError("sqlite", "append_decision", err)
	}

	query := `
		INSERT INTO decisions (
			id, organization, domain, intent, stage, actor, target,
			scope_id, scope_domain, scope_service, scope_agent,
			scope_system, scope_environment, scope_owning_team,
			context, timestamp, spec_id, spec_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		event.ID, event.Organization, event.Domain, event.Intent,
		string(event.Stage), event.Actor, event.Target,
		event.Scope.ID, event.Scope.Domain, event.Scope.Service, event.Scope.Agent,
		event.Scope.System, event.Scope.Environment, event.Scope.OwningTeam,
		string(contextJSON), event.Timestamp, event.SpecID, event.SpecVersion,
	)
	if err != nil {
		return wrapAppendError("append_decision", err)
	}
	return nil
}

// AppendVerdict persists a verdict event.
func (s *SQLiteSink) AppendVerdict(ctx context.Context, verdict *decision.VerdictEvent) error {
	matchedJSON, err := json.Marshal(verdict.MatchedPolicyIDs)
	if err != nil {
		return NewStorageError("sqlite", "append_verdict", err)
	}

	query := `
		INSERT INTO verdicts (
			id, decision_id, verdict, matched_policy_ids, snapshot_id,
			spec_id, spec_version, scope_id, owning_team, domain, issued_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		verdict.ID, verdict.DecisionID, string(verdict.Verdict), string(matchedJSON),
		verdict.SnapshotID, verdict.SpecID, verdict.SpecVersion,
		verdict.ScopeID, verdict.OwningTeam, verdict.Domain, verdict.IssuedAt,
	)
	if err != nil {
		return wrapAppendError("append_verdict", err)
	}
	return nil
}

// AppendTimeline persists a timeline entry.
func (s *SQLiteSink) AppendTimeline(ctx context.Context, entry *decision.TimelineEntry) error {
	query := `
		INSERT INTO timeline (id, decision_id, step, source, authority, detail, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.DecisionID, entry.Step,
		string(entry.Source), string(entry.Authority), entry.Detail, entry.At,
	)
	if err != nil {
		return wrapAppendError("append_timeline", err)
	}
	return nil
}

// QueryDecisions retrieves decision events matching the query.
func (s *SQLiteSink) QueryDecisions(ctx context.Context, query *Query) ([]*decision.Event, error) {
	where, args := buildDecisionWhere(query)
	sqlQuery := "SELECT id, organization, domain, intent, stage, actor, target, " +
		"scope_id, scope_domain, scope_service, scope_agent, scope_system, " +
		"scope_environment, scope_owning_team, context, timestamp, spec_id, spec_version " +
		"FROM decisions" + where +
		" ORDER BY timestamp DESC" + limitClause(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_decisions", err)
	}
	defer rows.Close()

	var results []*decision.Event
	for rows.Next() {
		event := &decision.Event{Scope: scope.Record{}}
		var contextJSON string
		var service, agent, system, environment, owningTeam, specID, specVersion sql.NullString
		err := rows.Scan(
			&event.ID, &event.Organization, &event.Domain, &event.Intent,
			&event.Stage, &event.Actor, &event.Target,
			&event.Scope.ID, &event.Scope.Domain, &service, &agent,
			&system, &environment, &owningTeam,
			&contextJSON, &event.Timestamp, &specID, &specVersion,
		)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan_decision", err)
		}
		event.Scope.Service = service.String
		event.Scope.Agent = agent.String
		event.Scope.System = system.String
		event.Scope.Environment = environment.String
		event.Scope.OwningTeam = owningTeam.String
		event.SpecID = specID.String
		event.SpecVersion = specVersion.String
		if err := json.Unmarshal([]byte(contextJSON), &event.Context); err != nil {
			return nil, NewStorageError("sqlite", "decode_context", err)
		}
		results = append(results, event)
	}
	return results, rows.Err()
}

// QueryVerdicts retrieves verdict events matching the query.
func (s *SQLiteSink) QueryVerdicts(ctx context.Context, query *Query) ([]*decision.VerdictEvent, error) {
	where, args := buildVerdictWhere(query)
	sqlQuery := "SELECT id, decision_id, verdict, matched_policy_ids, snapshot_id, " +
		"spec_id, spec_version, scope_id, owning_team, domain, issued_at " +
		"FROM verdicts" + where +
		" ORDER BY issued_at DESC" + limitClause(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_verdicts", err)
	}
	defer rows.Close()

	var results []*decision.VerdictEvent
	for rows.Next() {
		verdict := &decision.VerdictEvent{}
		var matchedJSON string
		var owningTeam sql.NullString
		err := rows.Scan(
			&verdict.ID, &verdict.DecisionID, &verdict.Verdict, &matchedJSON,
			&verdict.SnapshotID, &verdict.SpecID, &verdict.SpecVersion,
			&verdict.ScopeID, &owningTeam, &verdict.Domain, &verdict.IssuedAt,
		)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan_verdict", err)
		}
		verdict.OwningTeam = owningTeam.String
		if err := json.Unmarshal([]byte(matchedJSON), &verdict.MatchedPolicyIDs); err != nil {
			return nil, NewStorageError("sqlite", "decode_matched_ids", err)
		}
		results = append(results, verdict)
	}
	return results, rows.Err()
}

// QueryTimeline retrieves the timeline of one decision in chronological
// order.
func (s *SQLiteSink) QueryTimeline(ctx context.Context, decisionID string) ([]*decision.TimelineEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, decision_id, step, source, authority, detail, at FROM timeline WHERE decision_id = ? ORDER BY at ASC",
		decisionID,
	)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_timeline", err)
	}
	defer rows.Close()

	var results []*decision.TimelineEntry
	for rows.Next() {
		entry := &decision.TimelineEntry{}
		var detail sql.NullString
		err := rows.Scan(&entry.ID, &entry.DecisionID, &entry.Step,
			&entry.Source, &entry.Authority, &detail, &entry.At)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan_timeline", err)
		}
		entry.Detail = detail.String
		results = append(results, entry)
	}
	return results, rows.Err()
}

// PruneTimeline deletes timeline entries recorded before cutoff.
func (s *SQLiteSink) PruneTimeline(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM timeline WHERE at < ?", cutoff)
	if err != nil {
		return 0, NewStorageError("sqlite", "prune_timeline", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "prune_timeline", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// wrapAppendError maps primary-key violations to ErrDuplicateID.
func wrapAppendError(operation string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return NewStorageError("sqlite", operation, ErrDuplicateID)
	}
	return NewStorageError("sqlite", operation, err)
}

func buildDecisionWhere(query *Query) (string, []any) {
	if query == nil {
		return "", nil
	}
	var clauses []string
	var args []any
	if query.Organization != "" {
		clauses = append(clauses, "organization = ?")
		args = append(args, query.Organization)
	}
	if query.Domain != "" {
		clauses = append(clauses, "domain = ?")
		args = append(args, query.Domain)
	}
	if query.Intent != "" {
		clauses = append(clauses, "intent = ?")
		args = append(args, query.Intent)
	}
	if !query.Since.IsZero() {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, query.Since)
	}
	if !query.Until.IsZero() {
		clauses = append(clauses, "timestamp < ?")
		args = append(args, query.Until)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildVerdictWhere(query *Query) (string, []any) {
	if query == nil {
		return "", nil
	}
	var clauses []string
	var args []any
	if query.Domain != "" {
		clauses = append(clauses, "domain = ?")
		args = append(args, query.Domain)
	}
	if query.DecisionID != "" {
		clauses = append(clauses, "decision_id = ?")
		args = append(args, query.DecisionID)
	}
	if query.Verdict != "" {
		clauses = append(clauses, "verdict = ?")
		args = append(args, string(query.Verdict))
	}
	if !query.Since.IsZero() {
		clauses = append(clauses, "issued_at >= ?")
		args = append(args, query.Since)
	}
	if !query.Until.IsZero() {
		clauses = append(clauses, "issued_at < ?")
		args = append(args, query.Until)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func limitClause(query *Query) string {
	limit := query.effectiveLimit()
	clause := fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", query.Offset)
	}
	return clause
}
