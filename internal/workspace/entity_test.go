package workspace_test

import (
	"testing"

	"workbench/internal/workspace"
	"workbench/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStartsDirty(t *testing.T) {
	ws := workspace.New()

	ent, err := ws.NewFile("notes.md", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, ent.ID)
	assert.True(t, ent.Dirty, "a locally created file has no persisted version yet")
	assert.True(t, ent.Loaded)
	assert.Equal(t, "hello", ent.Content)

	_, err = ws.NewFile("notes.md", "")
	assert.Error(t, err, "paths are unique")

	_, err = ws.NewFile("", "")
	assert.Error(t, err)
}

func TestEditMarksDirtyAndDropsOutdated(t *testing.T) {
	ws := workspace.New()
	ws.Reconcile([]types.RemoteEntry{{Path: "a.py", Size: 10, ModStamp: "t1"}})
	ws.Reconcile([]types.RemoteEntry{{Path: "a.py", Size: 10, ModStamp: "t2"}})

	ent, _ := ws.GetByPath("a.py")
	require.True(t, ent.Outdated)

	require.NoError(t, ws.Edit(ent.ID, "edited"))
	cur, _ := ws.Get(ent.ID)
	assert.True(t, cur.Dirty)
	assert.False(t, cur.Outdated)

	assert.Error(t, ws.Edit("nope", "x"), "editing an unknown entity fails")
}

func TestRenameKeepsIdentity(t *testing.T) {
	ws := workspace.New()
	ent, err := ws.NewFile("old.py", "content")
	require.NoError(t, err)

	require.NoError(t, ws.Rename(ent.ID, "new.py"))

	cur, ok := ws.GetByPath("new.py")
	require.True(t, ok)
	assert.Equal(t, ent.ID, cur.ID)
	assert.Equal(t, "content", cur.Content)

	_, ok = ws.GetByPath("old.py")
	assert.False(t, ok)

	other, err := ws.NewFile("taken.py", "")
	require.NoError(t, err)
	assert.Error(t, ws.Rename(ent.ID, "taken.py"), "cannot rename onto an existing path")
	assert.NoError(t, ws.Rename(other.ID, "taken.py"), "renaming to its own path is fine")
}

func TestDeleteClearsActivePointer(t *testing.T) {
	ws := workspace.New()
	ent, err := ws.NewFile("a.py", "")
	require.NoError(t, err)

	require.NoError(t, ws.SetActive(ent.ID))
	assert.Equal(t, ent.ID, ws.ActiveID())

	require.NoError(t, ws.Delete(ent.ID))
	assert.Equal(t, "", ws.ActiveID())
	assert.Equal(t, 0, ws.Len())

	assert.Error(t, ws.Delete(ent.ID))
}

func TestSetActiveValidatesEntity(t *testing.T) {
	ws := workspace.New()
	ent, err := ws.NewFile("a.py", "")
	require.NoError(t, err)

	assert.Error(t, ws.SetActive("missing"))
	require.NoError(t, ws.SetActive(ent.ID))

	// Clearing the pointer is always allowed.
	require.NoError(t, ws.SetActive(""))
	_, ok := ws.Active()
	assert.False(t, ok)
}

func TestFilesOrderedByPath(t *testing.T) {
	ws := workspace.New()
	for _, p := range []string{"c.py", "a.py", "b.py"} {
		_, err := ws.NewFile(p, "")
		require.NoError(t, err)
	}

	files := ws.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "a.py", files[0].Path)
	assert.Equal(t, "b.py", files[1].Path)
	assert.Equal(t, "c.py", files[2].Path)
}
