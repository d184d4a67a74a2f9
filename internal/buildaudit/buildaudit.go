// Package buildaudit appends a row to a build_history table in
// Postgres each time a build run completes. It is entirely optional:
// with no DSN configured, Record is a no-op.
package buildaudit

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/builder"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/resilience"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS build_history (
	id            BIGSERIAL PRIMARY KEY,
	mode          TEXT NOT NULL,
	dataset_path  TEXT NOT NULL,
	threads       INTEGER NOT NULL,
	scanned       INTEGER NOT NULL,
	indexed       INTEGER NOT NULL,
	skipped       INTEGER NOT NULL,
	errors        INTEGER NOT NULL,
	elapsed_ms    BIGINT NOT NULL,
	error         TEXT,
	started_at    TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO build_history
	(mode, dataset_path, threads, scanned, indexed, skipped, errors, elapsed_ms, error, started_at)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Log appends build_history rows. A nil client makes every call a
// no-op, so the log is safe to use whether or not Postgres is
// configured.
type Log struct {
	client *postgres.Client
	logger *slog.Logger
}

// New wraps client. client may be nil to disable the audit log.
// When non-nil, the build_history table is created if it does not
// already exist.
func New(client *postgres.Client) (*Log, error) {
	l := &Log{
		client: client,
		logger: slog.Default().With("component", "build-audit"),
	}
	if !l.Enabled() {
		return l, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.DB.ExecContext(ctx, createTableSQL); err != nil {
		return nil, err
	}
	return l, nil
}

// Enabled reports whether a Postgres client is configured.
func (l *Log) Enabled() bool {
	return l != nil && l.client != nil
}

// Record appends a row describing a completed build run. Any failure
// is logged and swallowed — a down Postgres never fails a build.
func (l *Log) Record(ctx context.Context, mode, datasetPath string, threads int, result *builder.Result, buildErr error, startedAt time.Time) {
	if !l.Enabled() {
		return
	}

	var scanned, indexed, skipped, errs int
	var elapsedMs int64
	if result != nil {
		scanned, indexed, skipped, errs = result.ScannedFiles, result.IndexedFiles, result.SkippedFiles, result.Errors
		elapsedMs = result.ElapsedMs
	}
	var errText *string
	if buildErr != nil {
		s := buildErr.Error()
		errText = &s
	}

	retryCfg := resilience.RetryConfig{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond}
	err := resilience.Retry(ctx, "build-audit-insert", retryCfg, func() error {
		_, execErr := l.client.DB.ExecContext(ctx, insertSQL,
			mode, datasetPath, threads, scanned, indexed, skipped, errs, elapsedMs, errText, startedAt.UTC())
		return execErr
	})
	if err != nil {
		l.logger.Warn("failed to record build history", "error", err)
	}
}
