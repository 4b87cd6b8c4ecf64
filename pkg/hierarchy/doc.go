// Package hierarchy exposes the builder that projects a schema.Module's flat
// field slice into a navigable tree. Builds are pure and deterministic:
// siblings are ordered by Order and then identifier, unresolved parents are
// promoted to roots, and parent cycles are broken so a corrupted module can
// still be displayed. Reporting those problems is left to the validation
// package.
package hierarchy
