package domain

// Check-in actions.
const (
	ActionEntry = "entry"
	ActionFood  = "food"
)

// ValidCheckInAction reports whether action is a known check-in action.
func ValidCheckInAction(action string) bool {
	return action == ActionEntry || action == ActionFood
}

// Check-in result statuses.
const (
	CheckInSuccess = "success"
	CheckInWarning = "warning"
	CheckInDenied  = "denied"
	CheckInError   = "error"
)

type CheckInRequest struct {
	EventID   string `json:"eventId" validate:"required"`
	QRPayload string `json:"qrPayload" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=entry food"`
}

// CheckInResult is returned to the scanning device. Allowed=false with
// status "denied" means the attendee must not pass; "warning" flags a
// duplicate scan that is otherwise fine.
type CheckInResult struct {
	Allowed         bool   `json:"allowed"`
	Status          string `json:"status"`
	Message         string `json:"message"`
	AttendeeName    string `json:"attendeeName,omitempty"`
	AttendeeEmail   string `json:"attendeeEmail,omitempty"`
	Duplicate       bool   `json:"duplicate,omitempty"`
	FoodServedCount int    `json:"foodServedCount,omitempty"`
	MaxFoodServings int    `json:"maxFoodServings,omitempty"`
}
