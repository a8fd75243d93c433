package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ImageURL       string    `json:"imageUrl"`
	Role           Role      `json:"role"`
	ItineraryCount int       `json:"itineraryCount"`
	JoinedAt       time.Time `json:"joinedAt"`
}
