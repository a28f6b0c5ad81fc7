// Package favorites is the favorites partition: a set of story ids with no
// ownership of the stories themselves.
package favorites
