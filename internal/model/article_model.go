package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Article struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string                      `gorm:"type:varchar(255);not null"`
	Content          string                      `gorm:"type:text"`
	Slug             string                      `gorm:"type:varchar(255);index"`
	FeaturedImageUrl string                      `gorm:"type:text"`
	TopicKeywords    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	TeaserLocation   string                      `gorm:"type:varchar(255)"`
	TeaserEra        string                      `gorm:"type:varchar(255)"`
	TeaserHook       string                      `gorm:"type:text"`
	Embedding        pgvector.Vector             `gorm:"type:vector(1024)"` // voyage-2 uses 1024 dimensions
	CreatedAt        time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime"`
}

func (Article) TableName() string {
	return "articles"
}
