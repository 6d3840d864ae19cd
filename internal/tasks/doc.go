// Package tasks runs long-running movie operations with real-time progress reporting.
//
// # Bulk Import
//
// [Importer.BulkImport] resolves a list of titles for one user and stores every match:
//   - Titles are looked up through [models.MovieLookup], throttled by a shared rate limiter
//   - A small worker pool overlaps lookups with storage writes
//   - Titles the lookup cannot resolve are reported, not stored
//   - Storage failures are recorded per title and do not stop the run
//
// Results keep the order of the input titles regardless of which worker handled them.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Title Files
//
// [ReadTitles] reads one title per line, skipping blank lines and lines starting with '#'.
package tasks
