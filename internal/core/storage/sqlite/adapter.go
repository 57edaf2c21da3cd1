package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/core/toppick"
	"github.com/codeGROOVE-dev/retry"
	_ "modernc.org/sqlite" // Register sqlite driver
)

const (
	connectPingTimeout = 5 * time.Second

	// lookupChunkSize bounds the number of bound parameters per attribute query.
	lookupChunkSize = 500
)

// requiredTables are the sample-database tables the queries read.
var requiredTables = []string{"customers", "invoices", "invoice_items", "tracks", "albums", "artists", "genres"}

// Open opens the SQLite database at dsn and pings it, retrying with backoff
// up to connectAttempts times.
//
// Example DSN: "file:chinook.db?mode=ro"
func Open(dsn string, maxOpenConns, maxIdleConns int, connectAttempts uint) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if isMemoryDSN(dsn) && maxOpenConns != 1 {
		// Every connection to an in-memory DSN opens its own empty database.
		slog.Warn("[SQLite] In-memory database, limiting pool to one connection", "max_open_conns", maxOpenConns)
		maxOpenConns, maxIdleConns = 1, 1
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	slog.Info("[SQLite] Connection pool configured",
		"max_open_conns", maxOpenConns,
		"max_idle_conns", maxIdleConns)

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		retry.Attempts(connectAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("[SQLite] Ping failed, retrying", "attempt", n+1, "max_attempts", connectAttempts, "error", err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

// Adapter implements storage.Source on a SQLite database holding the
// music-store sample schema.
type Adapter struct {
	db *sql.DB
}

var _ storage.Source = (*Adapter)(nil)

// NewAdapter wraps an open database. It fails when a required table is
// missing; migrations (or the pre-built sample file) must provide them.
func NewAdapter(db *sql.DB) (*Adapter, error) {
	if err := validateSchema(db); err != nil {
		return nil, fmt.Errorf("schema validation failed - is this the sample database?: %w", err)
	}
	slog.Info("[SQLite] Adapter initialized")
	return &Adapter{db: db}, nil
}

func validateSchema(db *sql.DB) error {
	for _, table := range requiredTables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%s table does not exist", table)
		}
		if err != nil {
			return fmt.Errorf("failed to check schema: %w", err)
		}
	}
	return nil
}

// ListPurchaseEvents returns one event per invoice line, keyed by q's dimensions.
func (a *Adapter) ListPurchaseEvents(ctx context.Context, q storage.EventQuery) ([]toppick.PurchaseEvent, error) {
	query, err := storage.BuildEventQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase events: %w", err)
	}
	defer rows.Close()

	events, err := storage.ScanPurchaseEvents(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("[SQLite] Listed purchase events",
		"group_by", q.GroupBy,
		"item", q.Item,
		"count", len(events))
	return events, nil
}

// LookupItemAttributes resolves attributes for keys, in chunks of bound
// parameters. A nil keys slice reads the whole attribute table.
func (a *Adapter) LookupItemAttributes(ctx context.Context, item string, keys []string) (map[string]toppick.ItemAttributes, error) {
	base, keyColumn, err := storage.BuildAttributeQuery(item)
	if err != nil {
		return nil, err
	}

	out := make(map[string]toppick.ItemAttributes, len(keys))
	if keys == nil {
		if err := a.queryAttributes(ctx, base, nil, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	for start := 0; start < len(keys); start += lookupChunkSize {
		end := start + lookupChunkSize
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		query := fmt.Sprintf("%s\n\t\tWHERE %s IN (%s)", base, keyColumn, placeholders)

		args := make([]interface{}, len(chunk))
		for i, k := range chunk {
			args[i] = k
		}
		if err := a.queryAttributes(ctx, query, args, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Adapter) queryAttributes(ctx context.Context, query string, args []interface{}, out map[string]toppick.ItemAttributes) error {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query item attributes: %w", err)
	}
	defer rows.Close()
	return storage.ScanItemAttributes(rows, out)
}

// QueryTopPerGroup runs the chained-CTE statement inside SQLite.
func (a *Adapter) QueryTopPerGroup(ctx context.Context, q storage.EventQuery) ([]toppick.TopItem, error) {
	query, err := storage.BuildPushdownQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run top-per-group query: %w", err)
	}
	defer rows.Close()

	return storage.ScanTopItems(rows)
}

// Ping reports database connectivity for health checks.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// DB returns the underlying *sql.DB.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	slog.Info("[SQLite] Adapter closed gracefully")
	return nil
}
