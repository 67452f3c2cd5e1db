// Package skills manages the skill corpus used by Claude Code sessions.
// Skills are directories containing a SKILL.md file with YAML frontmatter
// (name, description) and a markdown body with workflow instructions. A
// skills directory may also carry a manifest.json mapping file
// characteristics to skill documents; Resolver applies it.
package skills

// Skill represents a discovered skill with its metadata
type Skill struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description shown in listings
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md, frontmatter stripped
}
