package memberapi

import "time"

// ============================================================================
// Views
// ============================================================================

// UserView is the outward shape of a user record. Password hashes and
// verification or reset tokens never appear here.
type UserView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Role          string         `json:"role"`
	Woreda        string         `json:"woreda"`
	Language      string         `json:"language"`
	Membership    MembershipView `json:"membership"`
	Profile       ProfileView    `json:"profile"`
	EmailVerified bool           `json:"emailVerified"`
	LastLogin     *time.Time     `json:"lastLogin,omitempty"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type MembershipView struct {
	Tier         string     `json:"tier"`
	Status       string     `json:"status"`
	MembershipID string     `json:"membershipId,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type ProfileView struct {
	Bio        string `json:"bio,omitempty"`
	Photo      string `json:"photo,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Location   string `json:"location,omitempty"`
}

type EventView struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Type                 string     `json:"type"`
	Status               string     `json:"status"`
	Location             string     `json:"location,omitempty"`
	StartsAt             time.Time  `json:"startsAt"`
	EndsAt               *time.Time `json:"endsAt,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Capacity             int        `json:"capacity"`
	Attendees            []string   `json:"attendees"`
	CreatedBy            string     `json:"createdBy"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// ============================================================================
// Requests
// ============================================================================

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone,omitempty"`
	Language string      `json:"language,omitempty"`
	Woreda   string      `json:"woreda,omitempty"`
	Profile  ProfileView `json:"profile,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// UpdateProfileRequest uses pointers so an absent field and an empty one
// can be told apart; absent fields keep their stored value.
type UpdateProfileRequest struct {
	Name     *string      `json:"name,omitempty"`
	Phone    *string      `json:"phone,omitempty"`
	Language *string      `json:"language,omitempty"`
	Woreda   *string      `json:"woreda,omitempty"`
	Profile  *ProfileView `json:"profile,omitempty"`
}

type CreateEventRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Type                 string     `json:"type"`
	Location             string     `json:"location,omitempty"`
	StartsAt             time.Time  `json:"startsAt"`
	EndsAt               *time.Time `json:"endsAt,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Capacity             int        `json:"capacity,omitempty"`
}

// ============================================================================
// Responses
// ============================================================================

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Token   string    `json:"token"`
	User    *UserView `json:"user"`
}

// UserResponse wraps a single user record.
type UserResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *UserView `json:"user"`
}

// EventResponse wraps a single event record.
type EventResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Event   *EventView `json:"event"`
}

// MessageResponse is the envelope for operations with no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every failure returns. Errors maps field
// names to reasons for validation failures. Stack is populated outside
// production only.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Stack   string            `json:"stack,omitempty"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
