// Package validator checks structs against their `validate` tags.
//
// Failures come back as a field-to-message map keyed by JSON name, so the
// HTTP layer can return them as-is.
package validator
