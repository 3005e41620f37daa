package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/romangod6/blog-api/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS articles (
            id UUID PRIMARY KEY,
            title VARCHAR(255) NOT NULL,
            text TEXT NOT NULL,
            contributor VARCHAR(255) NOT NULL,
            publication_date TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS comments (
            id UUID PRIMARY KEY,
            article_id UUID NOT NULL REFERENCES articles(id),
            parent_id UUID REFERENCES comments(id),
            text TEXT NOT NULL,
            contributor VARCHAR(255) NOT NULL,
            email VARCHAR(255) NOT NULL DEFAULT '',
            publication_date TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent_id ON comments(parent_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
        INSERT INTO articles (id, title, text, contributor, publication_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Text,
		article.Contributor,
		article.PublicationDate,
		article.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}

	return article, nil
}

func (s *PostgresStore) ListArticles(ctx context.Context) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("list articles: %w", err)
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

func (s *PostgresStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
        INSERT INTO comments (id, article_id, parent_id, text, contributor, email, publication_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.ArticleID,
		nullableID(comment.ParentID),
		comment.Text,
		comment.Contributor,
		comment.Email,
		comment.PublicationDate,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return comment, nil
}

func (s *PostgresStore) ListCommentsByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = $1 ORDER BY id`
	return s.queryComments(ctx, query, articleID)
}

func (s *PostgresStore) ListResponses(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE parent_id = $1 ORDER BY id`
	return s.queryComments(ctx, query, parentID)
}

func (s *PostgresStore) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
