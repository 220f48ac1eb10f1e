package event

const ProfileSlackUpdateDestination string = "profile_slack_update"
const ProfileSlackUpdateConsumerPybot string = "profile_slack_update_pybot"

// ProfileSlackUpdateMessage asks for a profile's Slack ID and military status
// to be pushed to pybot. Values are the ones current when the task was created.
type ProfileSlackUpdateMessage struct {
	TaskID         int64  `json:"task_id,string"`
	UserID         int64  `json:"user_id,string"`
	SlackID        string `json:"slack_id"`
	MilitaryStatus string `json:"military_status"`
}
