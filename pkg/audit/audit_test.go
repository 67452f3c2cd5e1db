package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audit", "audit.jsonl"))
	require.NoError(t, err)
	return store
}

func TestAppend_FillsIDAndTime(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(Record{
		Hook:     "safe-commit",
		Event:    "PreToolUse",
		ToolName: "Bash",
		Decision: "warn",
		Reason:   "review the diff before committing",
	}))

	records, err := store.ReadRecent(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].Time.IsZero())
	assert.Equal(t, "safe-commit", records[0].Hook)
	assert.Equal(t, "warn", records[0].Decision)
}

func TestAppend_OneLinePerRecord(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(Record{Hook: "git-context", Event: "SessionStart", Decision: "allow"}))
	require.NoError(t, store.Append(Record{Hook: "protect-files", Event: "PreToolUse", Decision: "block", Reason: ".env is protected"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestAppend_DoesNotEscapeHTML(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(Record{
		Hook:     "gitops-kubectl",
		Event:    "PreToolUse",
		Decision: "block",
		Reason:   "Say \"one-off bootstrap\" to proceed <once>",
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "<once>")
	assert.NotContains(t, string(data), `\u003c`)
}

func TestReadRecent_NewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)

	for _, hook := range []string{"first", "second", "third"} {
		require.NoError(t, store.Append(Record{Hook: hook, Event: "Stop", Decision: "allow"}))
	}

	records, err := store.ReadRecent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Hook)
	assert.Equal(t, "second", records[1].Hook)
}

func TestReadRecent_MissingFile(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ReadRecent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecent_SkipsCorruptLines(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(Record{Hook: "safe-destroy", Event: "PreToolUse", Decision: "block"}))

	f, err := os.OpenFile(store.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Append(Record{Hook: "auto-format", Event: "PostToolUse", Decision: "allow"}))

	records, err := store.ReadRecent(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "auto-format", records[0].Hook)
	assert.Equal(t, "safe-destroy", records[1].Hook)
}

func TestNewStore_DefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := NewStore("")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.Path(), filepath.Join(".claudeguard", "audit.jsonl")))
}

func TestAppend_PreservesExplicitFields(t *testing.T) {
	store := newTestStore(t)

	when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, store.Append(Record{
		ID:       "fixed-id",
		Time:     when,
		Hook:     "branch-prefix",
		Event:    "PreToolUse",
		Decision: "block",
	}))

	records, err := store.ReadRecent(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fixed-id", records[0].ID)
	assert.True(t, when.Equal(records[0].Time))
}
