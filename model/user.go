package model

// User represents a registered user.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	PasswordHash string `json:"-"` // Not exposed in API responses
}
