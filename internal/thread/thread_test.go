package thread

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/apperror"
	"github.com/romangod6/blog-api/internal/models"
)

// memReader keeps comments keyed by id and derives children by scanning.
type memReader struct {
	comments map[uuid.UUID]*models.Comment
	err      error
}

func newMemReader() *memReader {
	return &memReader{comments: make(map[uuid.UUID]*models.Comment)}
}

func (r *memReader) add(c *models.Comment) {
	r.comments[c.ID] = c
}

func (r *memReader) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.comments[id], nil
}

func (r *memReader) ListCommentsByArticle(_ context.Context, articleID uuid.UUID) ([]*models.Comment, error) {
	return r.filter(func(c *models.Comment) bool { return c.ArticleID == articleID })
}

func (r *memReader) ListResponses(_ context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	return r.filter(func(c *models.Comment) bool { return c.IsReplyTo(parentID) })
}

func (r *memReader) filter(keep func(*models.Comment) bool) ([]*models.Comment, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []*models.Comment{}
	for _, c := range r.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func stored(r *memReader, article *models.Article, parent *models.Comment, text string) *models.Comment {
	c := models.NewComment(text, "X", "X", time.Time{})
	c.ArticleID = article.ID
	if parent != nil {
		c.ParentID = &parent.ID
	}
	r.add(c)
	return c
}

func TestAttach_RootComment(t *testing.T) {
	m := NewModel(newMemReader())
	article := models.NewArticle("T", "B", "X", time.Time{})
	comment := models.NewComment("hi", "X", "X", time.Time{})

	if err := m.Attach(context.Background(), comment, article, nil); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if comment.ArticleID != article.ID {
		t.Errorf("ArticleID = %s, want %s", comment.ArticleID, article.ID)
	}
	if !comment.IsRoot() {
		t.Errorf("ParentID = %v, want nil", comment.ParentID)
	}
}

func TestAttach_Reply(t *testing.T) {
	r := newMemReader()
	m := NewModel(r)
	article := models.NewArticle("T", "B", "X", time.Time{})
	parent := stored(r, article, nil, "root")

	reply := models.NewComment("re", "Y", "Y", time.Time{})
	if err := m.Attach(context.Background(), reply, article, &parent.ID); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !reply.IsReplyTo(parent.ID) {
		t.Errorf("ParentID = %v, want %s", reply.ParentID, parent.ID)
	}
	if reply.ArticleID != article.ID {
		t.Errorf("ArticleID = %s, want %s", reply.ArticleID, article.ID)
	}
}

func TestAttach_ParentNotFound(t *testing.T) {
	m := NewModel(newMemReader())
	article := models.NewArticle("T", "B", "X", time.Time{})
	comment := models.NewComment("re", "Y", "Y", time.Time{})
	missing := models.NewID()

	err := m.Attach(context.Background(), comment, article, &missing)
	if !apperror.IsNotFound(err) {
		t.Fatalf("Attach error = %v, want NotFoundError", err)
	}
	if comment.ArticleID != uuid.Nil || comment.ParentID != nil {
		t.Error("failed Attach must leave the comment untouched")
	}
}

func TestAttach_ParentInOtherArticle(t *testing.T) {
	r := newMemReader()
	m := NewModel(r)
	first := models.NewArticle("one", "B", "X", time.Time{})
	second := models.NewArticle("two", "B", "X", time.Time{})
	foreign := stored(r, first, nil, "elsewhere")

	comment := models.NewComment("re", "Y", "Y", time.Time{})
	err := m.Attach(context.Background(), comment, second, &foreign.ID)
	if !apperror.IsValidation(err) {
		t.Fatalf("Attach error = %v, want ValidationError", err)
	}
	if err.Error() != "Parent comment is not in the same article." {
		t.Errorf("message = %q", err.Error())
	}
	if comment.ArticleID != uuid.Nil {
		t.Error("failed Attach must leave the comment untouched")
	}
}

func TestAttach_StoreFailure(t *testing.T) {
	r := newMemReader()
	r.err = errors.New("database is closed")
	m := NewModel(r)
	article := models.NewArticle("T", "B", "X", time.Time{})
	parentID := models.NewID()

	err := m.Attach(context.Background(), models.NewComment("x", "X", "X", time.Time{}), article, &parentID)
	if !apperror.IsPersistence(err) {
		t.Fatalf("Attach error = %v, want PersistenceError", err)
	}
}

func TestChildrenOf_DirectOnly(t *testing.T) {
	r := newMemReader()
	m := NewModel(r)
	article := models.NewArticle("T", "B", "X", time.Time{})
	root := stored(r, article, nil, "root")
	a := stored(r, article, root, "a")
	stored(r, article, nil, "other root")
	stored(r, article, a, "grandchild")
	b := stored(r, article, root, "b")

	children, err := m.ChildrenOf(context.Background(), root)
	if err != nil {
		t.Fatalf("ChildrenOf: %v", err)
	}
	if len(children) != 2 || children[0].ID != a.ID || children[1].ID != b.ID {
		t.Errorf("ChildrenOf = %v, want [a b]", texts(children))
	}
}

func TestRootsOf_ReturnsWholeArticle(t *testing.T) {
	r := newMemReader()
	m := NewModel(r)
	article := models.NewArticle("T", "B", "X", time.Time{})
	other := models.NewArticle("O", "B", "X", time.Time{})

	root := stored(r, article, nil, "root")
	child := stored(r, article, root, "child")
	stored(r, article, child, "grandchild")
	stored(r, other, nil, "unrelated")

	comments, err := m.RootsOf(context.Background(), article)
	if err != nil {
		t.Fatalf("RootsOf: %v", err)
	}
	if got := texts(comments); len(got) != 3 || got[0] != "root" || got[1] != "child" || got[2] != "grandchild" {
		t.Errorf("RootsOf = %v, want [root child grandchild]", got)
	}
}

func texts(comments []*models.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Text)
	}
	return out
}
