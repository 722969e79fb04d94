package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseforge/courseforge/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modules.yaml", `
- local_id: m1
  kind: module
  title: Intro
  position: 1
- local_id: m2
  kind: module
  title: Advanced
  position: 2
  prerequisites: [m1]
`)
	writeFile(t, dir, "assignment.json", `{
  "local_id": "a1",
  "kind": "assignment",
  "title": "Essay",
  "points_possible": 50,
  "badges": ["badge_a"]
}`)

	set, issues, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Equal(t, 3, set.Len())

	// Entities come out sorted by local ID.
	assert.Equal(t, "a1", set.Entities[0].LocalID)
	assert.Equal(t, "m1", set.Entities[1].LocalID)
	assert.Equal(t, "m2", set.Entities[2].LocalID)

	m2, ok := set.Get("m2")
	require.True(t, ok)
	assert.Equal(t, domain.KindModule, m2.Kind)
	assert.Equal(t, []string{"m1"}, m2.Dependencies)
	assert.Equal(t, filepath.Join(dir, "modules.yaml"), m2.SourceFile)

	a1, ok := set.Get("a1")
	require.True(t, ok)
	assert.Equal(t, []string{"badge_a"}, a1.Dependencies)
	require.NotNil(t, a1.Payload.(*domain.AssignmentPayload).PointsPossible)
	assert.InDelta(t, 50, *a1.Payload.(*domain.AssignmentPayload).PointsPossible, 0.001)
}

func TestLoadDir_SkipsSubdirectoriesAndOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.yaml", "local_id: m1\nkind: module\ntitle: T\nposition: 1\n")
	writeFile(t, dir, "notes.txt", "not a config")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), "ignored.yaml", "local_id: x\nkind: module\ntitle: X\nposition: 9\n")

	set, issues, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 1, set.Len())
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config directory")
}

func TestLoadDir_EnvelopeProblems(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		entityID string
		field    string
		message  string
	}{
		{
			name:     "missing local_id",
			doc:      "kind: module\ntitle: T\nposition: 1\n",
			entityID: "bad.yaml[0]",
			field:    "local_id",
			message:  "local_id is required",
		},
		{
			name:     "missing kind",
			doc:      "local_id: m1\ntitle: T\nposition: 1\n",
			entityID: "m1",
			field:    "kind",
			message:  "kind is required",
		},
		{
			name:     "unknown kind",
			doc:      "local_id: m1\nkind: webinar\ntitle: T\n",
			entityID: "m1",
			field:    "kind",
			message:  `unknown kind "webinar"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "bad.yaml", tt.doc)

			set, issues, err := LoadDir(dir)
			require.NoError(t, err)
			assert.Equal(t, 0, set.Len())
			require.Len(t, issues, 1)
			assert.Equal(t, domain.SeverityError, issues[0].Severity)
			assert.Equal(t, tt.entityID, issues[0].EntityID)
			assert.Equal(t, tt.field, issues[0].Field)
			assert.Equal(t, tt.message, issues[0].Message)
		})
	}
}

func TestLoadDir_DuplicateLocalID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "local_id: m1\nkind: module\ntitle: First\nposition: 1\n")
	writeFile(t, dir, "b.yaml", "local_id: m1\nkind: module\ntitle: Second\nposition: 2\n")

	set, issues, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "m1", issues[0].EntityID)
	assert.Equal(t, "local_id", issues[0].Field)
	assert.Contains(t, issues[0].Message, `duplicate local_id "m1"`)
	assert.Contains(t, issues[0].Message, "a.yaml")

	// The first definition wins.
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "First", set.Entities[0].Payload.(*domain.ModulePayload).Title)
}

func TestLoadDir_UnknownFieldsAreWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.yaml", "local_id: m1\nkind: module\ntitle: T\nposition: 1\ncolour: red\n")

	set, issues, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "colour", issues[0].Field)
	assert.Equal(t, `unknown field "colour" for kind module`, issues[0].Message)
}

func TestLoadDir_MalformedValueIsIssueNotError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.json", `{"local_id": "m1", "kind": "module", "title": "T", "position": "first"}`)

	_, issues, err := LoadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, domain.SeverityError, issues[0].Severity)
	assert.Equal(t, "m1", issues[0].EntityID)
	assert.Contains(t, issues[0].Message, "malformed module document")
}

func TestLoadDir_UnparseableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"local_id": `)

	set, issues, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	require.Len(t, issues, 1)
	assert.Equal(t, "broken.json", issues[0].EntityID)
	assert.Contains(t, issues[0].Message, "unparseable document")
}
