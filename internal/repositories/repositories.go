// package repositories provides the SQLite persistence gateway.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/mattn/go-sqlite3"
)

var _ models.DataManager = (*SQLiteDataManager)(nil)

// SQLiteDataManager implements [models.DataManager] on a SQLite database.
type SQLiteDataManager struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteDataManager creates a new [SQLiteDataManager] with the given database connection.
//
// A nil logger falls back to [shared.NewLogger].
func NewSQLiteDataManager(db *sql.DB, logger *log.Logger) *SQLiteDataManager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SQLiteDataManager{
		db:     db,
		logger: shared.WithLogger(logger, "component", "repositories"),
	}
}

// Ping verifies the database is reachable.
func (m *SQLiteDataManager) Ping(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorage, err)
	}
	return nil
}

// withTx runs fn inside a transaction scoped to a single operation.
//
// The transaction is rolled back when fn or the commit fails.
func (m *SQLiteDataManager) withTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return m.fail(op, fmt.Errorf("%w: failed to begin transaction: %w", shared.ErrStorage, err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return m.fail(op, err)
	}

	if err := tx.Commit(); err != nil {
		return m.fail(op, fmt.Errorf("%w: failed to commit transaction: %w", shared.ErrStorage, err))
	}
	return nil
}

// fail logs err for op and returns it unchanged.
func (m *SQLiteDataManager) fail(op string, err error) error {
	switch {
	case errors.Is(err, shared.ErrUserNotFound), errors.Is(err, shared.ErrMovieNotFound):
		m.logger.Warn("record not found", "op", op, "error", err)
	case errors.Is(err, shared.ErrInvalidInput):
		m.logger.Warn("rejected input", "op", op, "error", err)
	default:
		m.logger.Error("database error", "op", op, "error", err)
	}
	return err
}

// storageErr wraps a driver error in [shared.ErrStorage], also marking foreign key violations on
// movies.user_id as [shared.ErrUserNotFound].
func storageErr(action string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("%w: %w: failed to %s: %w", shared.ErrStorage, shared.ErrUserNotFound, action, err)
	}
	return fmt.Errorf("%w: failed to %s: %w", shared.ErrStorage, action, err)
}

// scanner is satisfied by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
