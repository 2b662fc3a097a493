package profile

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
