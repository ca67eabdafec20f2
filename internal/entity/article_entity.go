package entity

import (
	"time"

	"github.com/google/uuid"
)

// Article is an immutable knowledge-base record. Articles are produced by an
// offline ingestion process and are read-only to this service.
type Article struct {
	Id               uuid.UUID
	Title            string
	Content          string
	Slug             string
	FeaturedImageUrl string
	TopicKeywords    []string
	TeaserLocation   string
	TeaserEra        string
	TeaserHook       string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// SearchResult decorates an Article with the fused relevance score and the
// normalized query that produced it. Ephemeral, never persisted.
type SearchResult struct {
	Article Article
	Score   float64
	Query   string
}

// TeaserEntry is the denormalized projection of an Article used for instant
// keyword lookups before a full search completes.
type TeaserEntry struct {
	Id       uuid.UUID
	Title    string
	Location string
	Era      string
	Hook     string
	ImageUrl string
	Slug     string
}
