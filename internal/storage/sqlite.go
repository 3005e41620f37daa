package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/blog-api/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(stripParams(dbPath)); !isMemory(dbPath) && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}

	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS articles (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            text TEXT NOT NULL,
            contributor TEXT NOT NULL,
            publication_date DATETIME NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS comments (
            id TEXT PRIMARY KEY,
            article_id TEXT NOT NULL,
            parent_id TEXT,
            text TEXT NOT NULL,
            contributor TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            publication_date DATETIME NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(article_id) REFERENCES articles(id),
            FOREIGN KEY(parent_id) REFERENCES comments(id)
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

func (s *SQLiteStore) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
        INSERT INTO articles (id, title, text, contributor, publication_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		article.ID.String(),
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

func (s *SQLiteStore) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`

	article, err := scanArticle(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}

	return article, nil
}

func (s *SQLiteStore) ListArticles(ctx context.Context) ([]*models.Article, error) {
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

func (s *SQLiteStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
        INSERT INTO comments (id, article_id, parent_id, text, contributor, email, publication_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		comment.ID.String(),
		comment.ArticleID.String(),
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

func (s *SQLiteStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return comment, nil
}

func (s *SQLiteStore) ListCommentsByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = ? ORDER BY id`
	return s.queryComments(ctx, query, articleID.String())
}

func (s *SQLiteStore) ListResponses(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE parent_id = ? ORDER BY id`
	return s.queryComments(ctx, query, parentID.String())
}

func (s *SQLiteStore) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteDSN turns on foreign key enforcement and a busy timeout unless the
// caller already chose them.
func sqliteDSN(dbPath string) string {
	params := []string{}
	if !strings.Contains(dbPath, "_foreign_keys") && !strings.Contains(dbPath, "_fk") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dbPath, "_busy_timeout") && !strings.Contains(dbPath, "_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return dbPath
	}

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

func stripParams(dbPath string) string {
	dbPath = strings.TrimPrefix(dbPath, "file:")
	if i := strings.IndexByte(dbPath, '?'); i >= 0 {
		return dbPath[:i]
	}
	return dbPath
}

func isMemory(dbPath string) bool {
	return stripParams(dbPath) == ":memory:" || strings.Contains(dbPath, "mode=memory")
}
