// Package store persists schema modules. The editor never calls a store
// directly; hosts load a module, hand it to an editor session, and save the
// edited result back.
//
// Two implementations ship with the package: MemoryStore for tests and
// embedding, and FileStore which keeps one YAML or JSON document per module
// in a directory.
package store
