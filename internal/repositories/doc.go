// Package repositories implements SQLite persistence for spotdir.
//
// Key Implementations:
//   - [AuthStateRepository] : single-slot key/value storage for login session state. It satisfies
//     auth.Store, so the PKCE verifier written before the browser redirect survives until the
//     authorization code comes back, even across separate CLI invocations.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
