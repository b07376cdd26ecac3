// Package tasks orchestrates the folder → playlist sync with real-time progress reporting.
//
// # Sync Pipeline
//
// [SyncPipeline.Run] performs, strictly in order:
//
//  1. Profile lookup. Failure aborts with [shared.ErrAbortedAtProfile].
//  2. Playlist creation. Failure aborts with [shared.ErrAbortedAtCreate] before any search.
//  3. One search per file name, in input order. Each item logs exactly one of found, not found or error.
//     A failed search never aborts the run.
//  4. A single AddTracks call with every match in input order, chunked by the catalog client.
//     Failure returns [shared.ErrAppendFailed] together with the result.
//
// Names are neither deduplicated nor reordered.
//
// # Progress Reporting
//
// Every entry is appended to the run's [ProgressLog] before it is sent on the progress channel.
// The send blocks until the consumer reads it or the context is done, so a live consumer never misses an entry.
// The log itself is safe to read from other goroutines while the run is in flight.
//
// The [ProgressUpdate] struct contains phase, outcome, step counters, messages, and optional data for advanced UI rendering.
package tasks
