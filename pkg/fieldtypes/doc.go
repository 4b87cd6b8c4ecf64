// Package fieldtypes holds the registry of field-type tags known to the
// editor. The editor consults it for the default label of new fields; the
// validation engine uses the container and choice flags to flag misplaced
// children or option lists.
package fieldtypes
