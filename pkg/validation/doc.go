// Package validation inspects modules and produces issues for display. Issues
// are data, not control flow: the editor re-runs the engine after every
// structural change and never blocks a mutation because of them.
package validation
