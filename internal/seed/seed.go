// Package seed loads article and comment fixtures from YAML and posts them
// through the API client, parents before replies.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/romangod6/blog-api/client"
	"github.com/romangod6/blog-api/internal/models"
	"github.com/romangod6/blog-api/internal/thread"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoArticles         = errors.New("fixture contains no articles")
	ErrMissingTitle       = errors.New("article title is required")
	ErrMissingContributor = errors.New("contributor is required")
	ErrMissingText        = errors.New("text is required")
)

type Fixture struct {
	Articles []ArticleFixture `yaml:"articles"`
}

type ArticleFixture struct {
	Title           string           `yaml:"title"`
	Text            string           `yaml:"text"`
	Contributor     string           `yaml:"contributor"`
	PublicationDate string           `yaml:"publication_date"`
	Comments        []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Text            string           `yaml:"text"`
	Contributor     string           `yaml:"contributor"`
	Email           string           `yaml:"email"`
	PublicationDate string           `yaml:"publication_date"`
	Replies         []CommentFixture `yaml:"replies"`
}

// API is the subset of the client the seeder drives.
type API interface {
	CreateArticle(ctx context.Context, in client.NewArticle) (*models.Article, error)
	CreateComment(ctx context.Context, in client.NewComment) (*models.Comment, error)
	ArticleComments(ctx context.Context, id uuid.UUID) ([]*models.Comment, error)
}

// Result is one seeded article with its rebuilt thread.
type Result struct {
	Article *models.Article
	Thread  []*thread.Node
	Count   int
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) Validate() error {
	if len(f.Articles) == 0 {
		return ErrNoArticles
	}
	for i, a := range f.Articles {
		switch {
		case strings.TrimSpace(a.Title) == "":
			return fmt.Errorf("articles[%d]: %w", i, ErrMissingTitle)
		case strings.TrimSpace(a.Text) == "":
			return fmt.Errorf("articles[%d]: %w", i, ErrMissingText)
		case strings.TrimSpace(a.Contributor) == "":
			return fmt.Errorf("articles[%d]: %w", i, ErrMissingContributor)
		}
		if err := validateComments(fmt.Sprintf("articles[%d]", i), a.Comments); err != nil {
			return err
		}
	}
	return nil
}

func validateComments(path string, comments []CommentFixture) error {
	for i, c := range comments {
		at := fmt.Sprintf("%s.comments[%d]", path, i)
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("%s: %w", at, ErrMissingText)
		}
		if strings.TrimSpace(c.Contributor) == "" {
			return fmt.Errorf("%s: %w", at, ErrMissingContributor)
		}
		if err := validateComments(at, c.Replies); err != nil {
			return err
		}
	}
	return nil
}

// Apply creates every article and comment of the fixture and reads each
// thread back from the API.
func Apply(ctx context.Context, api API, f *Fixture) ([]Result, error) {
	results := make([]Result, 0, len(f.Articles))

	for _, af := range f.Articles {
		article, err := api.CreateArticle(ctx, client.NewArticle{
			Title:           af.Title,
			Text:            af.Text,
			Contributor:     af.Contributor,
			PublicationDate: af.PublicationDate,
		})
		if err != nil {
			return results, fmt.Errorf("create article %q: %w", af.Title, err)
		}

		if err := createComments(ctx, api, article.ID, nil, af.Comments); err != nil {
			return results, fmt.Errorf("article %q: %w", af.Title, err)
		}

		comments, err := api.ArticleComments(ctx, article.ID)
		if err != nil {
			return results, fmt.Errorf("read back comments of %q: %w", af.Title, err)
		}

		results = append(results, Result{
			Article: article,
			Thread:  thread.Tree(comments),
			Count:   len(comments),
		})
	}

	return results, nil
}

func createComments(ctx context.Context, api API, articleID uuid.UUID, parent *uuid.UUID, comments []CommentFixture) error {
	for _, cf := range comments {
		created, err := api.CreateComment(ctx, client.NewComment{
			Article:         articleID,
			Parent:          parent,
			Text:            cf.Text,
			Contributor:     cf.Contributor,
			Email:           cf.Email,
			PublicationDate: cf.PublicationDate,
		})
		if err != nil {
			return fmt.Errorf("create comment %q: %w", preview(cf.Text, 30), err)
		}

		id := created.ID
		if err := createComments(ctx, api, articleID, &id, cf.Replies); err != nil {
			return err
		}
	}
	return nil
}

// Render writes an indented outline of each seeded thread. Comment text is
// cut to width terminal cells so wide scripts line up.
func Render(w io.Writer, results []Result, width int) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s  %s (%d comments)\n", r.Article.ID, preview(r.Article.Title, width), r.Count); err != nil {
			return err
		}

		var werr error
		thread.Walk(r.Thread, func(n *thread.Node, depth int) {
			if werr != nil {
				return
			}
			indent := strings.Repeat("  ", depth+1)
			_, werr = fmt.Fprintf(w, "%s- %s: %s\n", indent, n.Comment.Contributor, preview(n.Comment.Text, width))
		})
		if werr != nil {
			return werr
		}
	}
	return nil
}

func preview(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(text, width, "...")
}
