package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name" validate:"required,min=1,max=100"`
	Email string   `json:"email" validate:"required,email"`
	Role  UserRole `json:"role" validate:"required,oneof=student teacher"`

	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Tokens is the bearer token pair issued by the Roble auth API.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the persisted sign-in state: the authenticated user plus
// tokens, keyed by whether the user asked to stay logged in.
type Session struct {
	User         User      `json:"user"`
	Tokens       Tokens    `json:"tokens"`
	KeepLoggedIn bool      `json:"keep_logged_in"`
	CreatedAt    time.Time `json:"created_at"`
}
