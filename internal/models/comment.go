package models

import (
	"time"

	"github.com/google/uuid"
)

// NewComment creates a detached comment; the thread model attaches it to
// its article and parent before it is stored.
func NewComment(text, contributor, email string, publishedAt time.Time) *Comment {
	now := time.Now().UTC()
	if publishedAt.IsZero() {
		publishedAt = now
	}
	return &Comment{
		ID:              NewID(),
		Text:            text,
		Contributor:     contributor,
		Email:           email,
		PublicationDate: publishedAt,
		CreatedAt:       now,
	}
}

// IsRoot returns true if the comment has no parent
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// IsReplyTo reports whether c is a direct response to the comment with the given id.
func (c *Comment) IsReplyTo(id uuid.UUID) bool {
	return c.ParentID != nil && *c.ParentID == id
}
