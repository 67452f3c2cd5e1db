package skills

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Lint validates every skill under dir plus the directory's manifest.json.
// Problems accumulate rather than short-circuiting so one pass reports them
// all. An absent directory lints clean.
func Lint(dir string) error {
	var result *multierror.Error

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillPath := filepath.Join(entryPath, skillFileName)
		if _, err := os.Stat(skillPath); err != nil {
			// A plain directory, not a skill
			continue
		}
		if _, err := loadSkillFile(skillPath); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "skill %s", entry.Name()))
		}
	}

	manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
	if err != nil {
		result = multierror.Append(result, err)
		return result.ErrorOrNil()
	}
	result = multierror.Append(result, lintManifest(dir, manifest))

	return result.ErrorOrNil()
}

// lintManifest checks that every pattern resolves to at least one markdown
// file and that the path globs and content hint regexes compile.
func lintManifest(dir string, manifest *Manifest) error {
	var result *multierror.Error
	resolver := NewResolverWithManifest(dir, manifest)

	checkPatterns := func(section string, patterns []string) {
		for _, pattern := range patterns {
			files := resolver.expandPatterns([]string{pattern})
			if len(files) == 0 {
				result = multierror.Append(result,
					errors.Errorf("%s: pattern %q matches no files", section, pattern))
				continue
			}
			for _, file := range files {
				if filepath.Ext(file) != ".md" {
					result = multierror.Append(result,
						errors.Errorf("%s: %s is not a markdown file", section, file))
				}
			}
		}
	}

	checkPatterns("always", manifest.Always)
	for ext, patterns := range manifest.Extensions {
		checkPatterns("extensions["+ext+"]", patterns)
	}
	for pathGlob, patterns := range manifest.Paths {
		if _, err := glob.Compile(pathGlob); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "paths: invalid glob %q", pathGlob))
		}
		checkPatterns("paths["+pathGlob+"]", patterns)
	}
	for hint, patterns := range manifest.ContentHints {
		if _, err := regexp.Compile("(?i)" + hint); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "content_hints: invalid regex %q", hint))
		}
		checkPatterns("content_hints["+hint+"]", patterns)
	}

	return result.ErrorOrNil()
}
