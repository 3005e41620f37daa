package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a time ordered identifier, so sorting by ID follows creation order.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NewArticle creates a new article with a generated ID and timestamps.
// A zero publication date defaults to the creation time.
func NewArticle(title, text, contributor string, publishedAt time.Time) *Article {
	now := time.Now().UTC()
	if publishedAt.IsZero() {
		publishedAt = now
	}
	return &Article{
		ID:              NewID(),
		Title:           title,
		Text:            text,
		Contributor:     contributor,
		PublicationDate: publishedAt,
		CreatedAt:       now,
	}
}
