package model

import (
	"time"
)

// LoginAttempt tracks consecutive failed logins per client address.
// The row is deleted on a successful login and reset once the block
// cooldown has elapsed.
type LoginAttempt struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	IPAddress     string     `gorm:"uniqueIndex;not null" json:"ip_address"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}
