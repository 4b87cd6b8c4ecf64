// Package script applies batches of editor operations described in YAML.
//
// A script is a list of steps:
//
//	- op: add
//	  type: group
//	- op: add
//	  type: textbox
//	  parent: $last
//	- op: update
//	  id: textbox_1
//	  field:
//	    label: {en: Full name}
//	- op: move
//	  id: textbox_1
//	  direction: up
//
// Each step yields a Result recording the error (if any), the identifier it
// created and whether the module changed. "$last" refers to the identifier
// created by the most recent add, duplicate or paste step.
package script
