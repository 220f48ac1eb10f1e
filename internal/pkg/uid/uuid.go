package uid

import "github.com/google/uuid"

// UUID generates time ordered UUID strings, used for correlation and token IDs.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a UUIDv7. If the random source fails it falls back to
// uuid.NewString, which panics rather than return a duplicate.
func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
