package seed

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/blog-api/client"
	"github.com/romangod6/blog-api/internal/api"
	"github.com/romangod6/blog-api/internal/storage"
)

const threadYAML = `
articles:
  - title: Hello
    text: First post
    contributor: alice
    comments:
      - text: Welcome
        contributor: bob
        replies:
          - text: Thanks
            contributor: alice
            replies:
              - text: Anytime
                contributor: bob
      - text: Question
        contributor: carol
  - title: Quiet
    text: No comments here
    contributor: dai
`

func newTestAPI(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(api.NewServer(store, api.Options{}).Handler())
	t.Cleanup(srv.Close)

	return client.New(srv.URL)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "articles: []", ErrNoArticles},
		{"no title", "articles:\n  - text: x\n    contributor: y", ErrMissingTitle},
		{"no article contributor", "articles:\n  - title: t\n    text: x", ErrMissingContributor},
		{
			"nested reply without text",
			"articles:\n  - title: t\n    text: x\n    contributor: y\n    comments:\n      - text: a\n        contributor: b\n        replies:\n          - contributor: c",
			ErrMissingText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("articles: [")); err == nil {
		t.Error("Parse should fail on malformed yaml")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(threadYAML), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Articles) != 2 || len(f.Articles[0].Comments) != 2 {
		t.Errorf("Load = %+v", f)
	}
	if got := f.Articles[0].Comments[0].Replies[0].Replies[0].Text; got != "Anytime" {
		t.Errorf("nested reply text = %q", got)
	}
}

func TestApplyAndRender(t *testing.T) {
	f, err := Parse([]byte(threadYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	results, err := Apply(context.Background(), newTestAPI(t), f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Count != 4 || results[1].Count != 0 {
		t.Errorf("counts = %d, %d, want 4, 0", results[0].Count, results[1].Count)
	}
	if len(results[0].Thread) != 2 {
		t.Errorf("roots = %d, want 2", len(results[0].Thread))
	}

	var buf bytes.Buffer
	if err := Render(&buf, results, 40); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, line := range []string{
		"  - bob: Welcome\n",
		"    - alice: Thanks\n",
		"      - bob: Anytime\n",
		"  - carol: Question\n",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
	if !strings.Contains(out, "Quiet (0 comments)") {
		t.Errorf("output missing empty article:\n%s", out)
	}
}

func TestPreview_WideCharacters(t *testing.T) {
	got := preview("とても読みやすい記事でした", 10)
	if got != "とても..." {
		t.Errorf("preview = %q, want %q", got, "とても...")
	}

	if got := preview("  spaced \n out  ", 40); got != "spaced out" {
		t.Errorf("preview = %q, want collapsed whitespace", got)
	}
}
