// Package models defines the domain records and the persistence contract for moviweb.
//
// The package contains two kinds of types:
//
// 1. Persistent records: plain structs mirroring the users and movies tables
//   - [User] : a person keeping a list of favorite movies
//   - [Movie] : a movie on exactly one user's list
//
// 2. Data transfer shapes:
//   - [MovieFields] : lookup-normalized metadata used to create a [Movie]
//   - [MovieUpdate] : a partial update where nil fields keep the stored value
//
// The [DataManager] interface is the persistence gateway used by the web handlers, CLI and TUI.
// repositories.SQLiteDataManager is its only implementation.
package models
