package domain

import "time"

type Event struct {
	EventID         string    `json:"id" dynamodbav:"event_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Category        string    `json:"category" dynamodbav:"category"`
	Date            string    `json:"date" dynamodbav:"date"`
	Time            string    `json:"time" dynamodbav:"time"`
	Venue           string    `json:"venue" dynamodbav:"venue"`
	Description     string    `json:"description" dynamodbav:"description"`
	Banner          string    `json:"banner,omitempty" dynamodbav:"banner"`
	Rules           []string  `json:"rules,omitempty" dynamodbav:"rules"`
	IsTeamEvent     bool      `json:"is_team_event" dynamodbav:"is_team_event"`
	IsActive        bool      `json:"is_active" dynamodbav:"is_active"`
	IsFoodProvided  bool      `json:"is_food_provided" dynamodbav:"is_food_provided"`
	MaxFoodServings int       `json:"max_food_servings" dynamodbav:"max_food_servings"`
	Fees            int       `json:"fees" dynamodbav:"fees"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateEventRequest struct {
	Name            string   `json:"name" validate:"required,min=3,max=60"`
	Category        string   `json:"category" validate:"required"`
	Date            string   `json:"date" validate:"required"`
	Time            string   `json:"time" validate:"required"`
	Venue           string   `json:"venue" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Rules           []string `json:"rules"`
	IsTeamEvent     bool     `json:"is_team_event"`
	IsFoodProvided  bool     `json:"is_food_provided"`
	MaxFoodServings int      `json:"max_food_servings" validate:"omitempty,min=1"`
	Fees            int      `json:"fees" validate:"omitempty,min=0"`
}

type UpdateEventRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=3,max=60"`
	Category        *string   `json:"category"`
	Date            *string   `json:"date"`
	Time            *string   `json:"time"`
	Venue           *string   `json:"venue"`
	Description     *string   `json:"description"`
	Rules           *[]string `json:"rules"`
	IsActive        *bool     `json:"is_active"`
	IsFoodProvided  *bool     `json:"is_food_provided"`
	MaxFoodServings *int      `json:"max_food_servings" validate:"omitempty,min=1"`
	Fees            *int      `json:"fees" validate:"omitempty,min=0"`
}
