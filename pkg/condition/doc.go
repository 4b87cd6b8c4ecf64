// Package condition compiles and evaluates the expressions attached to
// show/hide relationships, and derives which fields are visible for a set
// of answers.
//
// The language is deliberately small:
//
//	subscribe                       truthiness of a field value
//	country == "ca"                 equality against a literal
//	age != 0 && !(role == 'guest')  composition with && || ! and parentheses
//
// Literals are quoted strings (single or double quotes), numbers, true,
// false and null. A bare word on the right of a comparison is read as a
// string. Identifiers name fields; dotted paths walk nested maps.
package condition
