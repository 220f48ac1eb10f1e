package entity

import "time"

// SlackUpdateTask is an outbox row asking for a profile's Slack fields to be
// pushed to pybot. It snapshots the values at the time of the update.
type SlackUpdateTask struct {
	ID             int64
	UserID         int64
	SlackID        string
	MilitaryStatus string
	CreatedAt      time.Time
	PublishedAt    *time.Time
}

// ProfileMutator edits a locked profile and returns the outbox task to store
// with it, if any. Returning an error rolls the update back.
type ProfileMutator func(p *Profile) (*SlackUpdateTask, error)
