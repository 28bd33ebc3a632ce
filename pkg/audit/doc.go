// Package audit persists the immutable decision trail: decision events,
// verdict events, and timeline entries.
//
// # Append-only by construction
//
// The Sink interface exposes append and query operations only. There is no
// update or delete method, which makes record immutability a compile-time
// property of the storage boundary rather than a runtime check. Corrections
// happen by appending new records, never by rewriting history.
//
// The one sanctioned exception is timeline retention: operational timeline
// entries may be pruned after their retention period through the separate
// TimelinePruner interface, which the pipeline never sees. Decision and
// verdict events are never pruned.
//
// # Backends
//
//   - memory: in-process maps, for tests and ephemeral runs
//   - sqlite: durable file-backed storage, selectable between the CGO
//     driver (mattn/go-sqlite3) and the pure-Go driver (modernc.org/sqlite)
package audit
