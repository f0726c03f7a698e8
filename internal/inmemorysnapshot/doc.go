// Package inmemorysnapshot provides an ephemeral, thread-safe, in-memory
// implementation of the snapshotstore.Store interface.
//
// # Characteristics
//
//   - **Ephemeral:** Snapshots live as long as the process
//   - **Thread-Safe:** Uses sync.Map for concurrent access across sessions
//   - **Isolated:** Stored snapshots are copied in and out, so callers can
//     keep mutating the values they passed or received
//
// # When to Use
//
// This implementation is suitable for tests, for single runs that only need
// to carry state across restarts of a graph, and as the default when no
// backend is configured.
package inmemorysnapshot
