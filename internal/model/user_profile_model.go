package model

import "time"

type UserProfile struct {
	UserId        string    `gorm:"type:varchar(128);primaryKey"`
	PreferredName string    `gorm:"type:varchar(128)"`
	KnownInterest string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
