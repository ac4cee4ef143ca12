package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers driver "sqlite3"
	_ "modernc.org/sqlite"          // registers driver "sqlite"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// SQLite driver names accepted by NewSQLiteStore.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteOptions configures a SQLiteStore.
type SQLiteOptions struct {
	// Driver is DriverModernc or DriverMattn.
	Driver string

	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging.
	WALMode bool

	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int
}

// MemoryPath opens a private in-memory database that lives as long as the
// store.
const MemoryPath = ":memory:"

// SQLiteStore implements Store on top of database/sql with either SQLite
// driver. Writes are serialized by SQLite; reads use the pool.
type SQLiteStore struct {
	db     *sql.DB
	opts   SQLiteOptions
	logger *slog.Logger

	insertStmt *sql.Stmt
	byIDStmt   *sql.Stmt
	byNameStmt *sql.Stmt
	updateStmt *sql.Stmt
	deleteStmt *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) the database at opts.Path,
// applies the schema and prepares statements.
func NewSQLiteStore(opts SQLiteOptions, logger *slog.Logger) (*SQLiteStore, error) {
	if opts.Path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	if opts.Driver == "" {
		opts.Driver = DriverModernc
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 4
	}
	// Every connection to :memory: is its own empty database, so the pool
	// must hold exactly one.
	if opts.Path == MemoryPath {
		opts.MaxOpenConns = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "storage.sqlite", "driver", opts.Driver)

	dsn, err := buildDSN(opts)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.Path); dir != "." && opts.Path != MemoryPath {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newError(opts.Driver, "mkdir", err)
		}
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, newError(opts.Driver, "open", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, opts: opts, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite rule store initialized",
		"path", opts.Path,
		"wal_mode", opts.WALMode,
		"max_open_conns", opts.MaxOpenConns,
	)
	return s, nil
}

// buildDSN encodes the per-connection pragmas in each driver's own DSN
// syntax, so every pooled connection gets them.
func buildDSN(opts SQLiteOptions) (string, error) {
	busy := opts.BusyTimeout.Milliseconds()
	var params []string

	switch opts.Driver {
	case DriverModernc:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", busy))
		if opts.WALMode {
			params = append(params, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
		}
	case DriverMattn:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busy))
		if opts.WALMode {
			params = append(params, "_journal_mode=WAL", "_synchronous=NORMAL")
		}
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", opts.Driver)
	}

	return "file:" + opts.Path + "?" + strings.Join(params, "&"), nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(schema); err != nil {
		return newError(s.opts.Driver, "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, schemaVersion); err != nil {
		return newError(s.opts.Driver, "insert_schema_version", err)
	}

	var version sql.NullInt64
	if err := s.db.QueryRow(selectSchemaVersion).Scan(&version); err != nil {
		return newError(s.opts.Driver, "get_schema_version", err)
	}
	if version.Int64 != schemaVersion {
		return newError(s.opts.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version.Int64))
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	stmts := []struct {
		dst   **sql.Stmt
		query string
		name  string
	}{
		{&s.insertStmt, insertRule, "insert"},
		{&s.byIDStmt, selectRuleByID, "select_by_id"},
		{&s.byNameStmt, selectRuleByName, "select_by_name"},
		{&s.updateStmt, updateRule, "update"},
		{&s.deleteStmt, deleteRule, "delete"},
	}
	for _, st := range stmts {
		stmt, err := s.db.Prepare(st.query)
		if err != nil {
			return newError(s.opts.Driver, "prepare_"+st.name, err)
		}
		*st.dst = stmt
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, name, text string, ast []byte) (int64, error) {
	now := time.Now().UTC().UnixNano()
	res, err := s.insertStmt.ExecContext(ctx, name, text, string(ast), now, now)
	if err != nil {
		return 0, newError(s.opts.Driver, "save", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, newError(s.opts.Driver, "save", err)
	}
	return id, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*Rule, error) {
	r, err := scanRule(s.byIDStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newError(s.opts.Driver, "find_by_id", err)
	}
	return r, nil
}

func (s *SQLiteStore) FindAllByIDs(ctx context.Context, ids []int64) ([]*Rule, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id IN (` + placeholders + `) ORDER BY id`
	return s.queryRules(ctx, "find_all_by_ids", query, args...)
}

func (s *SQLiteStore) FindByName(ctx context.Context, name string) (*Rule, error) {
	r, err := scanRule(s.byNameStmt.QueryRowContext(ctx, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newError(s.opts.Driver, "find_by_name", err)
	}
	return r, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, text string, ast []byte) error {
	res, err := s.updateStmt.ExecContext(ctx, text, string(ast), time.Now().UTC().UnixNano(), id)
	if err != nil {
		return newError(s.opts.Driver, "update", err)
	}
	return s.requireRow(res, id, "update")
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Rule, error) {
	return s.queryRules(ctx, "list", selectAllRules)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return newError(s.opts.Driver, "delete", err)
	}
	return s.requireRow(res, id, "delete")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countRules).Scan(&n); err != nil {
		return 0, newError(s.opts.Driver, "count", err)
	}
	return n, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Maintain truncates the write-ahead log (when WAL is on) and lets SQLite
// refresh its query planner statistics.
func (s *SQLiteStore) Maintain(ctx context.Context) error {
	if s.opts.WALMode {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return newError(s.opts.Driver, "wal_checkpoint", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return newError(s.opts.Driver, "optimize", err)
	}
	s.logger.Debug("maintenance completed")
	return nil
}

// Close closes prepared statements and the database.
func (s *SQLiteStore) Close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.byIDStmt, s.byNameStmt, s.updateStmt, s.deleteStmt} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

func (s *SQLiteStore) requireRow(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return newError(s.opts.Driver, op, err)
	}
	if n == 0 {
		return &ruleerrors.NotFoundError{IDs: []int64{id}}
	}
	return nil
}

func (s *SQLiteStore) queryRules(ctx context.Context, op, query string, args ...any) ([]*Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newError(s.opts.Driver, op, err)
	}
	defer rows.Close()

	var out []*Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, newError(s.opts.Driver, op, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(s.opts.Driver, op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*Rule, error) {
	var (
		r       Rule
		ast     string
		created int64
		updated int64
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Text, &ast, &created, &updated); err != nil {
		return nil, err
	}
	r.AST = []byte(ast)
	r.CreatedAt = time.Unix(0, created).UTC()
	r.UpdatedAt = time.Unix(0, updated).UTC()
	return &r, nil
}
