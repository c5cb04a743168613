package models

import "time"

// BlockedSessionToken is a session JWT revoked by sign-out before its
// 30-day expiry. Rows are purged by the scheduler once expired.
type BlockedSessionToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token     string    `json:"token" gorm:"type:text;not null;uniqueIndex"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
}

// TableName specifies the table name for GORM
func (BlockedSessionToken) TableName() string {
	return "blocked_session_tokens"
}
