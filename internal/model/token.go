package model

import "time"

// APIToken is an issued bearer credential. Only the SHA-256 fingerprint of the
// plaintext secret is stored.
type APIToken struct {
	ID          uint       `gorm:"primarykey"`
	UserID      uint       `gorm:"column:user_id;not null;index"`
	User        *User      `gorm:"foreignKey:UserID" json:"-"`
	Name        string     `gorm:"column:name;size:255;not null"`
	Fingerprint string     `gorm:"column:token;size:64;uniqueIndex;not null" json:"-"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (APIToken) TableName() string {
	return "api_tokens"
}

// IsExpired reports whether the token expired strictly before now. A token
// without an expiry never expires.
func (t *APIToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
