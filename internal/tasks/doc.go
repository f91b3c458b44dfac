// package tasks implements roster clone operations between courses.
//
// The core abstraction is SyncEngine, which orchestrates roster fetches, membership checks, and enrollment creation.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
//
// Failed enrollment attempts are appended to an ErrorCollector owned by the
// caller, keeping error accumulation out of package state.
package tasks
