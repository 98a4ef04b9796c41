package domain

import "time"

// Auth providers. Accounts created through Google sign-in have no local
// credential path and cannot go through the OTP flow.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Username     string     `json:"username" dynamodbav:"username"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Provider     string     `json:"provider" dynamodbav:"provider"` // "local" | "google"
	Roles        []string   `json:"roles" dynamodbav:"roles"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`
	Image        string     `json:"image,omitempty" dynamodbav:"image"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	DeviceID string `json:"deviceId" validate:"required"`
}
