// Package repositories implements SQLite persistence for users and movies.
//
// [SQLiteDataManager] is the single implementation of [models.DataManager]. It owns no global state:
// the *sql.DB handle is opened by the caller (see shared.NewDatabase) and injected through
// [NewSQLiteDataManager].
//
// Every mutation runs in its own transaction which is committed or rolled back before the call
// returns, so concurrent requests never observe a partially written row. Failures are logged once
// here and returned wrapped in one of the shared sentinel errors:
//   - [shared.ErrUserNotFound], [shared.ErrMovieNotFound] : the target row does not exist
//   - [shared.ErrInvalidInput] : a required value is blank
//   - [shared.ErrStorage] : the database rejected the statement or is unreachable
//
// Referential integrity between movies and users is enforced by the schema's foreign key, not by
// application checks.
package repositories
