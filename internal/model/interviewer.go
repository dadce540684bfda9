package model

import "time"

// Interviewer is an operator account. Interviewers run the pipeline;
// candidates are not users and never authenticate.
type Interviewer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for interviewer authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token       string      `json:"token"`
	Interviewer Interviewer `json:"interviewer"`
}
