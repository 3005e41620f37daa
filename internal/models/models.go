package models

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	Contributor     string    `json:"contributor"`
	PublicationDate time.Time `json:"publicationDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Comment struct {
	ID              uuid.UUID  `json:"id"`
	ArticleID       uuid.UUID  `json:"article"`
	ParentID        *uuid.UUID `json:"parent"`
	Text            string     `json:"text"`
	Contributor     string     `json:"contributor"`
	Email           string     `json:"email"`
	PublicationDate time.Time  `json:"publicationDate"`
	CreatedAt       time.Time  `json:"createdAt"`
}
