// Package teaser holds the in-memory keyword index that lets the guide
// answer a recognised topic instantly, before any search round trip.
package teaser

import (
	"sort"
	"strings"
	"sync"

	"lost-london-agent/internal/entity"
)

// Cache maps lowercase keywords to precomputed teaser entries. Lookups are
// lock-cheap reads; a rebuild swaps the whole index atomically so readers
// never observe a half-built map.
type Cache struct {
	mu    sync.RWMutex
	index map[string]entity.TeaserEntry
}

func NewCache() *Cache {
	return &Cache{index: map[string]entity.TeaserEntry{}}
}

// BuildIndex constructs a keyword index from articles. When two articles
// claim the same keyword, the one whose title contains the keyword wins;
// otherwise first registration is kept. Articles missing teaser location or
// era get them derived from the text, so older ingests still teaser well.
func BuildIndex(articles []*entity.Article) map[string]entity.TeaserEntry {
	index := make(map[string]entity.TeaserEntry)

	for _, a := range articles {
		if a == nil || len(a.TopicKeywords) == 0 {
			continue
		}
		e := entity.TeaserEntry{
			Id:       a.Id,
			Title:    a.Title,
			Location: a.TeaserLocation,
			Era:      a.TeaserEra,
			Hook:     a.TeaserHook,
			ImageUrl: a.FeaturedImageUrl,
			Slug:     a.Slug,
		}
		if e.Location == "" {
			if landmark, ok := ExtractLocation(a.Title, a.Content); ok {
				e.Location = landmark.Name
			}
		}
		if e.Era == "" {
			if era, ok := ExtractEra(a.Content); ok {
				e.Era = era
			}
		}
		titleLower := strings.ToLower(a.Title)

		for _, kw := range a.TopicKeywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			existing, taken := index[kw]
			if !taken {
				index[kw] = e
				continue
			}
			// Specificity preference: a title actually containing the
			// keyword beats whoever got there first.
			if !strings.Contains(strings.ToLower(existing.Title), kw) && strings.Contains(titleLower, kw) {
				index[kw] = e
			}
		}
	}

	return index
}

// Replace installs a freshly built index. Full swap, never incremental.
func (c *Cache) Replace(index map[string]entity.TeaserEntry) {
	if index == nil {
		index = map[string]entity.TeaserEntry{}
	}
	c.mu.Lock()
	c.index = index
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// Lookup resolves a normalized query to a teaser entry, preferring precision:
// exact full-query match, then the longest multi-word keyword contained in
// the query, then the first query token (longer than 3 runes) with an exact
// keyword match.
func (c *Cache) Lookup(query string) (entity.TeaserEntry, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entity.TeaserEntry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// 1. Exact match of the whole query.
	if e, ok := c.index[query]; ok {
		return e, true
	}

	// 2. Longest multi-word keyword appearing inside the query. Ties break
	// lexicographically so results are deterministic.
	var bestKeyword string
	for kw := range c.index {
		if !strings.Contains(kw, " ") {
			continue
		}
		if !strings.Contains(query, kw) {
			continue
		}
		if len(kw) > len(bestKeyword) || (len(kw) == len(bestKeyword) && kw < bestKeyword) {
			bestKeyword = kw
		}
	}
	if bestKeyword != "" {
		return c.index[bestKeyword], true
	}

	// 3. First sufficiently long token with an exact keyword match.
	for _, token := range strings.Fields(query) {
		token = strings.Trim(token, ".,!?'\"")
		if len([]rune(token)) <= 3 {
			continue
		}
		if e, ok := c.index[token]; ok {
			return e, true
		}
	}

	return entity.TeaserEntry{}, false
}

// Keywords returns the registered keywords, sorted. Used for admin
// inspection and tests.
func (c *Cache) Keywords() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.index))
	for kw := range c.index {
		keys = append(keys, kw)
	}
	sort.Strings(keys)
	return keys
}
