package scaffold

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mriley/claudeguard/pkg/skills"
)

func TestFiles(t *testing.T) {
	files := Files()
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(".claudeguard", "config.yaml"), files[0].Path)
	assert.Equal(t, filepath.Join(".claude", "skills", "manifest.json"), files[1].Path)
	assert.Equal(t, filepath.Join(".claude", "skills", "git-safety", "SKILL.md"), files[2].Path)
}

func TestWrite(t *testing.T) {
	root := t.TempDir()

	for _, f := range Files() {
		written, err := f.Write(root, false)
		require.NoError(t, err)
		assert.True(t, written, f.Path)
	}

	for _, f := range Files() {
		info, err := os.Stat(filepath.Join(root, f.Path))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWrite_RefusesToOverwrite(t *testing.T) {
	root := t.TempDir()
	file := Files()[0]

	target := filepath.Join(root, file.Path)
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("hand-edited"), 0o644))

	written, err := file.Write(root, false)
	require.NoError(t, err)
	assert.False(t, written)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hand-edited", string(content))
}

func TestWrite_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	file := Files()[0]

	target := filepath.Join(root, file.Path)
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("hand-edited"), 0o644))

	written, err := file.Write(root, true)
	require.NoError(t, err)
	assert.True(t, written)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotEqual(t, "hand-edited", string(content))
	assert.Contains(t, string(content), "log_level")
}

// The starter files must hold together: the manifest parses, only names
// files the scaffold creates, and the example skill loads.
func TestStarterFilesAreConsistent(t *testing.T) {
	root := t.TempDir()
	for _, f := range Files() {
		_, err := f.Write(root, false)
		require.NoError(t, err)
	}

	skillsDir := filepath.Join(root, ".claude", "skills")

	manifest, err := skills.LoadManifest(filepath.Join(skillsDir, skills.ManifestFileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"git-safety/SKILL.md"}, manifest.Always)

	require.NoError(t, skills.Lint(skillsDir))

	discovery, err := skills.NewDiscovery(skills.WithSkillDirs(skillsDir))
	require.NoError(t, err)
	skill, err := discovery.GetSkill("git-safety")
	require.NoError(t, err)
	assert.NotEmpty(t, skill.Description)
}

func TestManifestTemplateIsValidJSON(t *testing.T) {
	root := t.TempDir()
	_, err := Files()[1].Write(root, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".claude", "skills", "manifest.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "always")
	assert.Contains(t, doc, "content_hints")
}
