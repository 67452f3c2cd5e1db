// Package scaffold writes the starter claudeguard files for a repository
// from embedded templates: a config file, a skill manifest, and one example
// skill. The starter manifest only references files the scaffold itself
// creates, so a fresh setup passes `skill lint`.
package scaffold

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//go:embed templates/*
var templateFS embed.FS

// A File is one starter file: where it goes relative to the repository
// root, and which embedded template fills it.
type File struct {
	Path     string
	template string
}

// Files returns the starter files in creation order.
func Files() []File {
	return []File{
		{
			Path:     filepath.Join(".claudeguard", "config.yaml"),
			template: "templates/config.yaml",
		},
		{
			Path:     filepath.Join(".claude", "skills", "manifest.json"),
			template: "templates/manifest.json",
		},
		{
			Path:     filepath.Join(".claude", "skills", "git-safety", "SKILL.md"),
			template: "templates/SKILL.md",
		},
	}
}

// Write materializes the starter file under root, creating parent
// directories as needed. An existing file is left alone unless force is
// set. Reports whether the file was written.
func (f File) Write(root string, force bool) (bool, error) {
	target := filepath.Join(root, f.Path)

	if !force {
		if _, err := os.Stat(target); err == nil {
			return false, nil
		}
	}

	content, err := templateFS.ReadFile(f.template)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read embedded template '%s'", f.template)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, errors.Wrapf(err, "failed to create directory for '%s'", f.Path)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return false, errors.Wrapf(err, "failed to write '%s'", f.Path)
	}
	return true, nil
}
