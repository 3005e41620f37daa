package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/models"
)

// Store is the persistence boundary for articles and comments.
// Lookups return (nil, nil) when no row matches the id.
type Store interface {
	Initialize() error
	Close() error

	// Article operations
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error)
	ListArticles(ctx context.Context) ([]*models.Article, error)

	// Comment operations
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListCommentsByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error)
	ListResponses(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error)
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured driver and makes sure the schema exists.
func Open(driver, url string) (Store, error) {
	var (
		store Store
		err   error
	)

	switch driver {
	case DriverSQLite, "sqlite3":
		store, err = NewSQLiteStore(url)
	case DriverPostgres:
		store, err = NewPostgresStore(url)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}

	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize %s schema: %w", driver, err)
	}

	return store, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	articleColumns = `id, title, text, contributor, publication_date, created_at`
	commentColumns = `id, article_id, parent_id, text, contributor, email, publication_date, created_at`
)

func scanArticle(row rowScanner) (*models.Article, error) {
	article := &models.Article{}
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Text,
		&article.Contributor,
		&article.PublicationDate,
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	comment := &models.Comment{}
	var parentID uuid.NullUUID

	err := row.Scan(
		&comment.ID,
		&comment.ArticleID,
		&parentID,
		&comment.Text,
		&comment.Contributor,
		&comment.Email,
		&comment.PublicationDate,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		comment.ParentID = &parentID.UUID
	}
	return comment, nil
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
