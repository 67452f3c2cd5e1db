package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Discovery finds skills across an ordered list of directories. Earlier
// directories win name conflicts, so repo-local skills shadow user-global
// ones.
type Discovery struct {
	skillDirs []string
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithSkillDirs replaces the search path entirely.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs sets the standard search path: the repository's
// .claude/skills first, then the user's.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./.claude/skills",
			filepath.Join(homeDir, ".claude", "skills"),
		}
		return nil
	}
}

// WithExtraDirs appends directories after those already configured, so
// skills.dirs from config lose name conflicts to the defaults.
func WithExtraDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = append(d.skillDirs, dirs...)
		return nil
	}
}

// NewDiscovery builds a Discovery; with no options it searches the default
// directories.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}

	d := &Discovery{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Dirs returns the directories searched, in precedence order.
func (d *Discovery) Dirs() []string {
	return d.skillDirs
}

// DiscoverSkills loads every skill on the search path. The first directory
// to define a name keeps it.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	found := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		for _, skill := range skillsInDir(dir) {
			if _, taken := found[skill.Name]; !taken {
				found[skill.Name] = skill
			}
		}
	}

	return found, nil
}

// skillsInDir loads the skills directly under dir. Unreadable directories
// and invalid skill files are skipped, not errors: a missing user dir or a
// half-written SKILL.md must not break discovery of the rest.
func skillsInDir(dir string) []*Skill {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var loaded []*Skill
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// os.Stat rather than entry.Type so symlinked skill dirs count
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := loadSkillFile(filepath.Join(entryPath, skillFileName))
		if err != nil {
			continue
		}
		skill.Directory = entryPath
		loaded = append(loaded, skill)
	}
	return loaded
}

// GetSkill discovers and returns one skill by name.
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	found, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := found[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}
	return skill, nil
}

// loadSkillFile parses a SKILL.md into a Skill. The frontmatter must carry
// name and description.
func loadSkillFile(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	frontmatter, err := parseFrontmatter(content)
	if err != nil {
		return nil, err
	}

	name, _ := frontmatter["name"].(string)
	description, _ := frontmatter["description"].(string)
	if name == "" {
		return nil, errors.New("frontmatter has no name")
	}
	if description == "" {
		return nil, errors.New("frontmatter has no description")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     extractBodyContent(string(content)),
	}, nil
}

// parseFrontmatter runs the goldmark meta extension over the document and
// returns the YAML frontmatter values.
func parseFrontmatter(content []byte) (map[string]interface{}, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()

	var buf bytes.Buffer
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	frontmatter := meta.Get(pctx)
	if frontmatter == nil {
		return nil, errors.New("missing frontmatter")
	}
	return frontmatter, nil
}

// extractBodyContent strips the YAML frontmatter fence, leaving the
// markdown body. Content without a complete fence passes through as is.
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}
