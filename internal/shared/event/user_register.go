package event

const UserRegistrationDestination string = "user_registration"
const UserRegistrationConsumerProfile string = "user_registration_profile"

// UserRegistrationMessage is published by the identity service once a user signs up.
type UserRegistrationMessage struct {
	UserID   int64  `json:"user_id,string"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
