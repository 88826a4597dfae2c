package models

import "time"

// StudentDomain is the email suffix that qualifies an account as a student account.
const StudentDomain = ".chitkara.edu"

type User struct {
	ID            string    `json:"id" validate:"required"`
	Name          string    `json:"name"`
	Email         string    `json:"email" validate:"required"`
	Phone         string    `json:"phone"`
	StudentID     string    `json:"studentId"`
	IsStudent     bool      `json:"isStudent"`
	StudentDomain string    `json:"studentDomain"`
	Password      string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SignupRequest struct {
	FullName        string `json:"fullName" validate:"required,min=3"`
	Email           string `json:"email" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	StudentID       string `json:"studentId"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
