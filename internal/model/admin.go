package model

import "time"

// Admin represents an administrator account. Admins are created once at
// setup time (HTTP register or the create-admin CLI) and never deleted here.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminRegisterRequest is the payload for admin registration.
type AdminRegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
