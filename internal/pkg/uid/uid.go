// Package uid generates identifiers.
//
// NumberID is used for primary keys (snowflake), StringID for opaque tokens
// such as correlation IDs and JWT IDs (UUIDv7).
package uid

// NumberID generates sortable int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
