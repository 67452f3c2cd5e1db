package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// File is a settings.json document. Top-level keys other than "hooks" and
// hook groups without claudeguard entries are kept as raw JSON, so edits
// never disturb settings owned by the user or by other tools.
type File struct {
	Path string

	doc   map[string]json.RawMessage
	hooks map[string][]json.RawMessage
}

// Load reads a settings file. A missing or empty file yields an empty
// document that Save will create.
func Load(path string) (*File, error) {
	f := &File{
		Path:  path,
		doc:   make(map[string]json.RawMessage),
		hooks: make(map[string][]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read settings file")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(data, &f.doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse settings file '%s'", path)
	}

	if rawHooks, ok := f.doc["hooks"]; ok {
		if err := json.Unmarshal(rawHooks, &f.hooks); err != nil {
			return nil, errors.Wrapf(err, "failed to parse hooks section of '%s'", path)
		}
	}

	return f, nil
}

// RemoveManaged strips every hook entry whose command carries the managed
// marker. Groups left without entries are dropped, as are events left
// without groups. Groups that contain no claudeguard entries keep their
// original bytes. Returns the number of entries removed.
func (f *File) RemoveManaged() int {
	removed := 0

	for event, groups := range f.hooks {
		kept := make([]json.RawMessage, 0, len(groups))
		for _, raw := range groups {
			var group HookGroup
			if err := json.Unmarshal(raw, &group); err != nil {
				// Not a shape we understand; leave it alone
				kept = append(kept, raw)
				continue
			}

			foreign := make([]HookEntry, 0, len(group.Hooks))
			for _, entry := range group.Hooks {
				if !IsManaged(entry) {
					foreign = append(foreign, entry)
				}
			}

			if len(foreign) == len(group.Hooks) {
				kept = append(kept, raw)
				continue
			}
			removed += len(group.Hooks) - len(foreign)

			if len(foreign) == 0 {
				continue
			}
			group.Hooks = foreign
			rendered, err := json.Marshal(group)
			if err != nil {
				kept = append(kept, raw)
				continue
			}
			kept = append(kept, rendered)
		}

		if len(kept) == 0 {
			delete(f.hooks, event)
		} else {
			f.hooks[event] = kept
		}
	}

	return removed
}

// Install replaces previously installed claudeguard entries with the given
// managed configuration and reports how many entries were removed and
// added.
func (f *File) Install(managed *HooksConfig) (removed, added int, err error) {
	removed = f.RemoveManaged()

	for _, event := range EventNames() {
		for _, group := range managed.Groups(event) {
			rendered, err := json.Marshal(group)
			if err != nil {
				return removed, added, errors.Wrap(err, "failed to marshal hook group")
			}
			f.hooks[event] = append(f.hooks[event], rendered)
			added += len(group.Hooks)
		}
	}

	return removed, added, nil
}

// ManagedHookNames returns the hook names of installed claudeguard
// entries, sorted.
func (f *File) ManagedHookNames() []string {
	seen := make(map[string]bool)

	for _, groups := range f.hooks {
		for _, raw := range groups {
			var group HookGroup
			if err := json.Unmarshal(raw, &group); err != nil {
				continue
			}
			for _, entry := range group.Hooks {
				if name := managedHookName(entry.Command); name != "" {
					seen[name] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EventSummary describes the hook entries installed for one event.
type EventSummary struct {
	Event   string
	Total   int
	Managed int
}

// Summary reports per-event entry counts in canonical event order.
func (f *File) Summary() []EventSummary {
	summaries := make([]EventSummary, 0, len(EventNames()))

	for _, event := range EventNames() {
		summary := EventSummary{Event: event}
		for _, raw := range f.hooks[event] {
			var group HookGroup
			if err := json.Unmarshal(raw, &group); err != nil {
				continue
			}
			summary.Total += len(group.Hooks)
			for _, entry := range group.Hooks {
				if IsManaged(entry) {
					summary.Managed++
				}
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

// Bytes renders the document as indented JSON. The hooks key is dropped
// entirely when no hook groups remain.
func (f *File) Bytes() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(f.doc)+1)
	for key, value := range f.doc {
		doc[key] = value
	}

	if len(f.hooks) == 0 {
		delete(doc, "hooks")
	} else {
		rawHooks, err := json.Marshal(f.hooks)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal hooks section")
		}
		doc["hooks"] = rawHooks
	}

	rendered, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal settings")
	}
	return append(rendered, '\n'), nil
}

// Diff returns a unified diff between the settings file on disk and the
// current in-memory document.
func (f *File) Diff() (string, error) {
	current, err := os.ReadFile(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrap(err, "failed to read settings file")
	}

	next, err := f.Bytes()
	if err != nil {
		return "", err
	}

	return udiff.Unified(f.Path, f.Path, string(current), string(next)), nil
}

// Save writes the document through a file lock, backing the previous
// version up to <path>.bak.<timestamp> first. Hook processes read the
// settings concurrently, so the write must be atomic under the lock.
func (f *File) Save() error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}

	if err := f.backup(); err != nil {
		return err
	}

	if err := lockedfile.Write(f.Path, bytes.NewReader(data), 0o644); err != nil {
		return errors.Wrap(err, "failed to write settings file")
	}
	return nil
}

// backup copies the current file aside before a write. Missing files need
// no backup.
func (f *File) backup() error {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read settings for backup")
	}

	backupPath := fmt.Sprintf("%s.bak.%s", f.Path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write settings backup")
	}
	return nil
}
