package hierarchy

import "github.com/goliatone/go-formedit/pkg/schema"

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/hierarchy and passed into New.
type Options struct {
	// Less orders siblings. It must be a strict weak ordering that never
	// reports two distinct identifiers as equal.
	Less func(a, b schema.Field) bool
}

func defaultOptions() Options {
	return Options{
		Less: schema.Less,
	}
}
