package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/testutil"
)

func TestRenderSceneMarkdown_ListsRowsAndObjects(t *testing.T) {
	t.Parallel()

	db := testutil.Scene()
	v := outline.DefaultView()
	v.Closed = map[string]bool{"collection:::coll-b": true}
	tr := outline.Build(db, v)

	md, err := RenderSceneMarkdown(db, tr, RenderOptions{
		Events: []model.Event{{
			TS:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Kind:      "outliner.parent_drop",
			EntityIDs: []string{"ob-sphere", "ob-cube"},
		}},
		Now: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RenderSceneMarkdown: %v", err)
	}
	for _, want := range []string{
		"# Main",
		"- ID: sc-main",
		"- Published: 2026-01-03T00:00:00Z",
		"    - Cube `object`",
		"B `collection` (+",
		"| Child (`ob-child`) | mesh | Cube | A |",
		"Subdivision, Bevel, Array",
		"- 2026-01-02T03:04:05Z parent_drop: ob-sphere, ob-cube",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Contains(md, "- LibObj") {
		t.Fatalf("rows under a collapsed collection should not be listed:\n%s", md)
	}
}

func TestWriteScene_WritesMarkdownAndHTML(t *testing.T) {
	t.Parallel()

	db := testutil.Scene()
	tr := outline.Build(db, outline.DefaultView())
	dir := t.TempDir()

	res, err := WriteScene(db, tr, dir, WriteOptions{HTML: true})
	if err != nil {
		t.Fatalf("WriteScene: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("written = %v", res.Written)
	}
	b, err := os.ReadFile(filepath.Join(dir, "sc-main.html"))
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(b), "<h1") || !strings.Contains(string(b), "<table>") {
		t.Fatalf("unexpected html:\n%s", string(b))
	}

	if _, err := WriteScene(db, tr, dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if _, err := WriteScene(db, tr, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestRenderHTML_EscapesRawHTML(t *testing.T) {
	t.Parallel()

	page, err := RenderHTML("<b>x</b>", "# Scene\n\n<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(page)
	if strings.Contains(s, "<script>alert") {
		t.Fatalf("raw html passed through:\n%s", s)
	}
	if !strings.Contains(s, "<title>&lt;b&gt;x&lt;/b&gt;</title>") {
		t.Fatalf("title not escaped:\n%s", s)
	}
}
