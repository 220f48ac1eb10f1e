package entity

import "errors"

var (
	// ErrPybotUnavailable marks failures worth retrying: network errors,
	// 5xx and 429 responses.
	ErrPybotUnavailable = errors.New("pybot unavailable")
	// ErrPybotRejected marks 4xx responses. Sending the same payload again
	// will not help.
	ErrPybotRejected = errors.New("pybot rejected request")
)

// SlackUpdate is the payload pushed to pybot for one profile change.
type SlackUpdate struct {
	TaskID         int64
	UserID         int64
	SlackID        string
	MilitaryStatus string
}
