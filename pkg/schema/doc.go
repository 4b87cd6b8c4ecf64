// Package schema defines the flat, persistence-friendly form model edited by
// the editor package. A Module owns an ordered slice of Field records; every
// Field references its parent by identifier rather than by pointer, so the
// data itself never holds ownership cycles. The hierarchy package projects the
// flat slice into a navigable tree.
//
// Struct tags are kept stable so external serializers (JSON or YAML) can round
// trip modules losslessly. Clone helpers return fully detached copies; the
// editor relies on them for whole-module undo snapshots and the clipboard.
package schema
