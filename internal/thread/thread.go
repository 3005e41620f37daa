// Package thread maintains the parent/child relation between comments of
// a single article. Relations are stored as ids and resolved through the
// store on demand; no in-memory back pointers are kept.
package thread

import (
	"context"

	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/apperror"
	"github.com/romangod6/blog-api/internal/models"
)

// Reader is the part of the store the thread model needs.
type Reader interface {
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListCommentsByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Comment, error)
	ListResponses(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error)
}

type Model struct {
	store Reader
}

func NewModel(store Reader) *Model {
	return &Model{store: store}
}

// Attach links comment to article and, when parentID is set, to that parent.
// The parent must exist and belong to the same article. Nothing is written;
// on error the comment is left untouched.
func (m *Model) Attach(ctx context.Context, comment *models.Comment, article *models.Article, parentID *uuid.UUID) error {
	var parent *models.Comment

	if parentID != nil {
		found, err := m.store.GetComment(ctx, *parentID)
		if err != nil {
			return apperror.Persistence("find parent comment", err)
		}
		if found == nil {
			return &apperror.NotFoundError{Entity: "Parent comment", ID: parentID.String()}
		}
		if found.ArticleID != article.ID {
			return apperror.Invalid("Parent comment is not in the same article.")
		}
		parent = found
	}

	comment.ArticleID = article.ID
	comment.ParentID = nil
	if parent != nil {
		id := parent.ID
		comment.ParentID = &id
	}

	return nil
}

// ChildrenOf returns the direct responses to comment in creation order.
func (m *Model) ChildrenOf(ctx context.Context, comment *models.Comment) ([]*models.Comment, error) {
	children, err := m.store.ListResponses(ctx, comment.ID)
	if err != nil {
		return nil, apperror.Persistence("list responses", err)
	}
	return children, nil
}

// RootsOf returns every comment of the article, whatever its depth, in
// creation order. Callers rebuild the tree from the parent references.
func (m *Model) RootsOf(ctx context.Context, article *models.Article) ([]*models.Comment, error) {
	comments, err := m.store.ListCommentsByArticle(ctx, article.ID)
	if err != nil {
		return nil, apperror.Persistence("list article comments", err)
	}
	return comments, nil
}
