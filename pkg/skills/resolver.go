package skills

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// contentSampleBytes caps how much of the target file content hints see.
const contentSampleBytes = 2000

// Resolver applies a skills directory's manifest to target file paths.
type Resolver struct {
	skillsDir string
	manifest  *Manifest
}

// NewResolver loads the manifest from skillsDir. A missing manifest gives a
// resolver that matches nothing; a malformed one is an error.
func NewResolver(skillsDir string) (*Resolver, error) {
	manifest, err := LoadManifest(filepath.Join(skillsDir, ManifestFileName))
	if err != nil {
		return nil, err
	}
	return &Resolver{skillsDir: skillsDir, manifest: manifest}, nil
}

// NewResolverWithManifest wraps an already loaded manifest.
func NewResolverWithManifest(skillsDir string, manifest *Manifest) *Resolver {
	return &Resolver{skillsDir: skillsDir, manifest: manifest}
}

// Resolve returns the skill files applicable to target, sorted and
// deduplicated. Matching runs four rule sets: always-loaded patterns, the
// target's extension, path globs against the target string, and content
// hint regexes over the head of the target when it exists. Only .md files
// count; invalid patterns are skipped.
func (r *Resolver) Resolve(target string) []string {
	matched := make(map[string]bool)

	r.addPatterns(matched, r.manifest.Always)

	ext := strings.ToLower(filepath.Ext(target))
	if patterns, ok := r.manifest.Extensions[ext]; ok {
		r.addPatterns(matched, patterns)
	}

	for pathGlob, patterns := range r.manifest.Paths {
		// No separator: like fnmatch, `*` crosses `/`
		g, err := glob.Compile(pathGlob)
		if err != nil {
			continue
		}
		if g.Match(target) {
			r.addPatterns(matched, patterns)
		}
	}

	if content := contentSample(target); content != "" {
		for hint, patterns := range r.manifest.ContentHints {
			re, err := regexp.Compile("(?i)" + hint)
			if err != nil {
				continue
			}
			if re.MatchString(content) {
				r.addPatterns(matched, patterns)
			}
		}
	}

	files := make([]string, 0, len(matched))
	for file := range matched {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

func (r *Resolver) addPatterns(matched map[string]bool, patterns []string) {
	for _, file := range r.expandPatterns(patterns) {
		if filepath.Ext(file) == ".md" {
			matched[file] = true
		}
	}
}

// expandPatterns resolves pattern lists to existing skill files under the
// skills directory.
func (r *Resolver) expandPatterns(patterns []string) []string {
	var resolved []string
	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := doublestar.FilepathGlob(filepath.Join(r.skillsDir, pattern))
			if err != nil {
				continue
			}
			resolved = append(resolved, matches...)
			continue
		}

		path := filepath.Join(r.skillsDir, pattern)
		if _, err := os.Stat(path); err == nil {
			resolved = append(resolved, path)
		}
	}
	return resolved
}

// contentSample reads the head of path, empty on any error.
func contentSample(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, contentSampleBytes))
	if err != nil {
		return ""
	}
	return string(data)
}
