package models

import "time"

// Event is a volunteering opportunity published by an organization.
type Event struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt,omitempty"`
	Slots          int       `json:"slots,omitempty"`
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is a volunteer's request to join an event.
type Application struct {
	ID          string            `json:"id"`
	EventID     string            `json:"eventId"`
	EventTitle  string            `json:"eventTitle,omitempty"`
	VolunteerID string            `json:"volunteerId"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Notification is a message addressed to one user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignUpRequest registers a new account of either role.
type SignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Name     string `json:"name" form:"name" binding:"required,min=2,max=120"`
	Phone    string `json:"phone,omitempty" form:"phone" binding:"omitempty,max=32"`
	Document string `json:"document,omitempty" form:"document" binding:"omitempty,max=32"`
	Role     string `json:"role" form:"-"`
}
