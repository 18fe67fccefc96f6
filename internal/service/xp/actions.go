package xp

// Action identifies a user action that earns XP.
type Action string

// Actions that earn XP. Reasons are for logging and metrics only, never for
// branching logic.
const (
	ActionPropertyCreated        Action = "property_created"
	ActionPaymentMade            Action = "payment_made"
	ActionMessageSent            Action = "message_sent"
	ActionPositiveReviewReceived Action = "positive_review_received"
	ActionReviewGiven            Action = "review_given"
	ActionProfileCompleted       Action = "profile_completed"
	ActionLeaseCreated           Action = "lease_created"
	ActionLeaseCompleted         Action = "lease_completed"
	ActionApplicationSubmitted   Action = "application_submitted"
	ActionApplicationAccepted    Action = "application_accepted"
)

// rewards is the fixed XP amount per action.
var rewards = map[Action]int{
	ActionPropertyCreated:        50,
	ActionPaymentMade:            20,
	ActionMessageSent:            5,
	ActionPositiveReviewReceived: 30,
	ActionReviewGiven:            15,
	ActionProfileCompleted:       100,
	ActionLeaseCreated:           75,
	ActionLeaseCompleted:         50,
	ActionApplicationSubmitted:   10,
	ActionApplicationAccepted:    25,
}

// Reward returns the XP amount for an action and whether the action is known.
func Reward(action Action) (int, bool) {
	amount, ok := rewards[action]
	return amount, ok
}

// PositiveReviewThreshold is the minimum revealed rating that earns the
// review target the positive-review XP award.
const PositiveReviewThreshold = 4.0
