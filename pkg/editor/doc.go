// Package editor holds the session-scoped editing state of one form module:
// the current module, its derived hierarchy, selection, a single-slot
// clipboard, validation issues and bounded undo/redo history.
//
// Every structural mutation snapshots the previous module, applies the change
// to a detached copy, rebuilds the hierarchy from scratch, re-runs validation
// and then notifies observers (StateChanged first, followed by the specific
// ModuleChanged / FieldSelected / ViewChanged events). Rejected operations
// leave the state untouched and return a sentinel error that callers can
// inspect with errors.Is or ignore.
//
// A State assumes a single writer and performs no locking. Concurrent editing
// sessions each own an independent State.
package editor
