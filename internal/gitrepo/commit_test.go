package gitrepo

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

func TestCommitFiles_OnlyCommitsGivenFiles(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	repo := initRepo(t)

	scene := filepath.Join(repo, "scenes", "scene.json")
	writeFile(t, filepath.Join(repo, "README"), "hi\n")
	run(t, repo, "git", "add", "README")
	run(t, repo, "git", "commit", "-m", "base")

	run(t, repo, "mkdir", "scenes")
	writeFile(t, scene, "{}\n")
	writeFile(t, filepath.Join(repo, "other.txt"), "staged\n")
	run(t, repo, "git", "add", "other.txt")

	committed, err := CommitFiles(ctx, []string{scene, filepath.Join(repo, "scenes", "journal.jsonl")}, "outliner: parent_drop ob-sphere -> ob-cube")
	require.NoError(t, err)
	assert.True(t, committed)

	files := runOut(t, repo, "git", "show", "--name-only", "--format=%s", "HEAD")
	assert.Contains(t, files, "outliner: parent_drop ob-sphere -> ob-cube")
	assert.Contains(t, files, "scenes/scene.json")
	assert.NotContains(t, files, "other.txt")

	// Nothing changed since.
	committed, err = CommitFiles(ctx, []string{scene}, "again")
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestCommitFiles_OutsideRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scene.json"), "{}\n")

	committed, err := CommitFiles(context.Background(), []string{filepath.Join(dir, "scene.json")}, "x")
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestDropMessage(t *testing.T) {
	target := outline.Elem{Kind: outline.ElemObject, ID: "ob-cube"}
	events := []model.Event{
		{Kind: "outliner.parent_drop", EntityIDs: []string{"ob-sphere", "ob-cube"}, Payload: map[string]any{"target": target}},
		{Kind: "outliner.collection_drop", EntityIDs: []string{"ob-a", "ob-b", "ob-c", "coll-b"}, Payload: map[string]any{"target": outline.Elem{Kind: outline.ElemCollection, ID: "coll-b"}}},
		{Kind: "outliner.parent_clear", EntityIDs: []string{"ob-child"}},
	}
	assert.Equal(t,
		"outliner: parent_drop ob-sphere -> ob-cube; collection_drop ob-a +2 -> coll-b; parent_clear ob-child",
		DropMessage(events))
	assert.Equal(t, "", DropMessage(nil))

	var many []model.Event
	for range 8 {
		many = append(many, model.Event{Kind: "outliner.parent_clear", EntityIDs: []string{"ob-" + strings.Repeat("x", len(many)+1)}})
	}
	assert.True(t, strings.HasSuffix(DropMessage(many), "+3 more"), DropMessage(many))
}

func TestDebouncedCommitter_BatchesDrops(t *testing.T) {
	var mu sync.Mutex
	var messages []string
	d := NewDebouncedCommitter([]string{"scene.json"}, 20*time.Millisecond, nil)
	d.commit = func(_ context.Context, files []string, message string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, message)
		return true, nil
	}

	d.Notify([]model.Event{{Kind: "outliner.parent_clear", EntityIDs: []string{"ob-a"}}})
	d.Notify([]model.Event{{Kind: "outliner.parent_clear", EntityIDs: []string{"ob-b"}}})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(messages) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "outliner: parent_clear ob-a; parent_clear ob-b", messages[0])

	d.Notify([]model.Event{{Kind: "outliner.parent_clear", EntityIDs: []string{"ob-c"}}})
	d.Flush()
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, messages, 2)
}
