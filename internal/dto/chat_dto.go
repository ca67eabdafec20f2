package dto

import "github.com/google/uuid"

// ChatMessage mirrors the OpenAI wire shape the voice front-end sends.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the body of POST /chat/completions. The voice
// widget encodes the visitor's identity in custom_session_id as
// "firstName|sessionId" (either side may be empty).
type ChatCompletionRequest struct {
	Messages        []ChatMessage `json:"messages" validate:"required,min=1"`
	CustomSessionId string        `json:"custom_session_id"`
	Stream          bool          `json:"stream"`
}

// Streaming response chunks, OpenAI SSE compatible.

type ChatCompletionChunk struct {
	Id      string            `json:"id"`
	Object  string            `json:"object"`
	Choices []ChatChunkChoice `json:"choices"`
}

type ChatChunkChoice struct {
	Delta        ChatChunkDelta `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

type ChatChunkDelta struct {
	Content string `json:"content,omitempty"`
}

// RespondRequest is the plain JSON (non-streaming) chat surface.
type RespondRequest struct {
	SessionId string `json:"session_id"`
	Query     string `json:"query" validate:"required"`
	UserName  string `json:"user_name"`
	UserId    string `json:"user_id"`
}

type RespondResponse struct {
	SessionId string `json:"session_id"`
	Text      string `json:"text"`
}

// MergeKeywordsRequest is the administrative write path: union new keywords
// into an article's list and rebuild the teaser index.
type MergeKeywordsRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1,dive,min=2"`
}

type MergeKeywordsResponse struct {
	ArticleId uuid.UUID `json:"article_id"`
	Title     string    `json:"title"`
	Keywords  []string  `json:"keywords"`
}

type TeaserKeywordsResponse struct {
	Count    int      `json:"count"`
	Keywords []string `json:"keywords"`
}

// TeaserRebuildMessage travels over the internal event bus to request a
// teaser index rebuild.
type TeaserRebuildMessage struct {
	ArticleId uuid.UUID `json:"article_id,omitempty"`
	Reason    string    `json:"reason"`
}
