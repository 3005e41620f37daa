package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/apperror"
	"github.com/romangod6/blog-api/internal/models"
)

// publicationLayouts are tried in order when a client sends publicationDate.
var publicationLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

type ArticleRequest struct {
	Title           string `json:"title"`
	Text            string `json:"text"`
	Contributor     string `json:"contributor"`
	PublicationDate string `json:"publicationDate"`
}

// Article validates the payload and builds the entity to store.
func (r *ArticleRequest) Article() (*models.Article, error) {
	if err := required(map[string]string{
		"title":       r.Title,
		"text":        r.Text,
		"contributor": r.Contributor,
	}, "title", "text", "contributor"); err != nil {
		return nil, err
	}

	published, err := parsePublicationDate(r.PublicationDate)
	if err != nil {
		return nil, err
	}

	return models.NewArticle(r.Title, r.Text, r.Contributor, published), nil
}

type CommentRequest struct {
	Article         string  `json:"article"`
	Parent          string  `json:"parent"`
	Text            string  `json:"text"`
	Contributor     string  `json:"contributor"`
	Email           *string `json:"email"`
	PublicationDate string  `json:"publicationDate"`
}

// Comment validates the payload and builds a detached comment. The article
// and parent references are resolved by the caller.
func (r *CommentRequest) Comment() (*models.Comment, error) {
	if strings.TrimSpace(r.Article) == "" {
		return nil, apperror.Invalid("No article specified.")
	}
	if err := required(map[string]string{
		"text":        r.Text,
		"contributor": r.Contributor,
	}, "text", "contributor"); err != nil {
		return nil, err
	}

	published, err := parsePublicationDate(r.PublicationDate)
	if err != nil {
		return nil, err
	}

	// Older clients never sent an email and had the contributor stored in its place.
	email := r.Contributor
	if r.Email != nil && strings.TrimSpace(*r.Email) != "" {
		email = strings.TrimSpace(*r.Email)
	}

	return models.NewComment(r.Text, r.Contributor, email, published), nil
}

// ArticleID returns the referenced article id. An unparsable id can never
// have been stored, so it is reported as not found.
func (r *CommentRequest) ArticleID() (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Article)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound("Article", raw)
	}
	return id, nil
}

// ParentID returns nil for a root comment.
func (r *CommentRequest) ParentID() (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.Parent)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NotFound("Parent comment", raw)
	}
	return &id, nil
}

func required(values map[string]string, order ...string) error {
	for _, field := range order {
		if strings.TrimSpace(values[field]) == "" {
			return apperror.Invalid("Field '%s' is required.", field)
		}
	}
	return nil
}

func parsePublicationDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range publicationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.Invalid("Invalid publicationDate '%s'.", raw)
}
