// Package client is a small typed client for the blog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/models"
)

type Client struct {
	Addr       string
	HTTPClient *http.Client
}

func New(addr string) *Client {
	return &Client{
		Addr:       strings.TrimRight(addr, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is returned for every FAIL envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type NewArticle struct {
	Title           string `json:"title"`
	Text            string `json:"text"`
	Contributor     string `json:"contributor"`
	PublicationDate string `json:"publicationDate,omitempty"`
}

type NewComment struct {
	Article         uuid.UUID  `json:"article"`
	Parent          *uuid.UUID `json:"parent,omitempty"`
	Text            string     `json:"text"`
	Contributor     string     `json:"contributor"`
	Email           string     `json:"email,omitempty"`
	PublicationDate string     `json:"publicationDate,omitempty"`
}

type envelope struct {
	Status       string          `json:"status"`
	Data         json.RawMessage `json:"data"`
	ErrorMessage string          `json:"errorMessage"`
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) ListArticles(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	err := c.do(ctx, http.MethodGet, "/api/articles", nil, &articles)
	return articles, err
}

func (c *Client) CreateArticle(ctx context.Context, in NewArticle) (*models.Article, error) {
	article := &models.Article{}
	if err := c.do(ctx, http.MethodPost, "/api/article/new", in, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (c *Client) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article := &models.Article{}
	if err := c.do(ctx, http.MethodGet, "/api/article/"+id.String(), nil, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (c *Client) ArticleComments(ctx context.Context, id uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := c.do(ctx, http.MethodGet, "/api/article/"+id.String()+"/comments", nil, &comments)
	return comments, err
}

func (c *Client) CreateComment(ctx context.Context, in NewComment) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := c.do(ctx, http.MethodPost, "/api/comment/new", in, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *Client) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := c.do(ctx, http.MethodGet, "/api/comment/"+id.String(), nil, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *Client) Responses(ctx context.Context, id uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := c.do(ctx, http.MethodGet, "/api/comment/"+id.String()+"/responses", nil, &comments)
	return comments, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if env.Status != "OK" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.ErrorMessage}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
