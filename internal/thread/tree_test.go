package thread

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/romangod6/blog-api/internal/models"
)

func TestTree(t *testing.T) {
	r := newMemReader()
	article := models.NewArticle("T", "B", "X", time.Time{})
	root := stored(r, article, nil, "root")
	a := stored(r, article, root, "a")
	stored(r, article, a, "a1")
	stored(r, article, root, "b")
	stored(r, article, nil, "second")

	flat, _ := r.ListCommentsByArticle(context.Background(), article.ID)
	roots := Tree(flat)

	var lines []string
	Walk(roots, func(n *Node, depth int) {
		lines = append(lines, strings.Repeat("-", depth)+n.Comment.Text)
	})

	want := []string{"root", "-a", "--a1", "-b", "second"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Errorf("Walk = %v, want %v", lines, want)
	}
}

func TestTree_OrphanBecomesRoot(t *testing.T) {
	article := models.NewArticle("T", "B", "X", time.Time{})
	missing := models.NewID()
	orphan := models.NewComment("orphan", "X", "X", time.Time{})
	orphan.ArticleID = article.ID
	orphan.ParentID = &missing

	roots := Tree([]*models.Comment{orphan})
	if len(roots) != 1 || roots[0].Comment != orphan {
		t.Errorf("Tree dropped a comment whose parent is outside the list")
	}
}

func TestTree_Empty(t *testing.T) {
	if roots := Tree(nil); roots == nil || len(roots) != 0 {
		t.Errorf("Tree(nil) = %v, want empty", roots)
	}
}
