// Package config exposes typed, read-only access to runtime configuration.
//
// Keys are dotted paths ("pybot.url", "modules.profile.relay.schedule").
// Implementations are expected to return the zero value for missing keys so
// callers can keep wiring code free of error checks.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them to a duration unit.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// NumberConfig reads numeric values.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray splits a "<element1>,<element2>,..." value. Blank elements are dropped.
	GetArray(key string) []string

	// GetMap parses a "<key1>:<value1>,<key2>:<value2>,..." value.
	GetMap(key string) map[string]string
}
