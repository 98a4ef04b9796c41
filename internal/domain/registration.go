package domain

import "time"

// Registration links a participant (or team) to an event. Check-in and food
// serving are one-directional: once checked in, a registration never goes back,
// and the food counter only increments.
type Registration struct {
	RegistrationID   string     `json:"id" dynamodbav:"registration_id"`
	EventID          string     `json:"event_id" dynamodbav:"event_id"`
	OwnerID          string     `json:"owner_id" dynamodbav:"owner_id"`
	TeamMemberIDs    []string   `json:"team_member_ids,omitempty" dynamodbav:"team_member_ids"`
	IsTeam           bool       `json:"is_team" dynamodbav:"is_team"`
	Verified         bool       `json:"verified" dynamodbav:"verified"`
	CheckedIn        bool       `json:"checked_in" dynamodbav:"checked_in"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty" dynamodbav:"checked_in_at"`
	CheckedInBy      string     `json:"checked_in_by,omitempty" dynamodbav:"checked_in_by"`
	FoodServedCount  int        `json:"food_served_count" dynamodbav:"food_served_count"`
	LastFoodServedAt *time.Time `json:"last_food_served_at,omitempty" dynamodbav:"last_food_served_at"`
	CreatedAt        time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Includes reports whether userID is the owner or a team member.
func (r *Registration) Includes(userID string) bool {
	if r.OwnerID == userID {
		return true
	}
	for _, id := range r.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
